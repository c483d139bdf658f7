// Package core holds the document tree, the domain model and the service that
// moves a requirements document through the conversion pipeline.
package core

// Document is the central entity of the domain.
// It is the typed tree recovered from a loosely formatted requirements
// document. Absent sections leave their fields at the zero value; slices are
// never nil once produced by a parser.
type Document struct {
	Overview    Overview    `json:"overview" yaml:"overview"`
	KeyTerms    []Term      `json:"key_terms" yaml:"key_terms"`
	Features    []Term      `json:"features" yaml:"features"`
	Things      []Thing     `json:"things" yaml:"things"`
	Operations  []Operation `json:"operations" yaml:"operations"`
	Connections []Term      `json:"connections" yaml:"connections"`
	Constraints []string    `json:"constraints" yaml:"constraints"`
}

// NewDocument returns a Document with every collection initialized.
func NewDocument() Document {
	return Document{
		KeyTerms:    []Term{},
		Features:    []Term{},
		Things:      []Thing{},
		Operations:  []Operation{},
		Connections: []Term{},
		Constraints: []string{},
	}
}

// Overview carries the three labeled fields of the overview section.
type Overview struct {
	Description  string `json:"description" yaml:"description"`
	BusinessArea string `json:"business_area" yaml:"business_area"`
	Importance   string `json:"importance" yaml:"importance"`
}

// Term is a named free-text entry (key terms, features, connections).
type Term struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Thing is a candidate domain object.
type Thing struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Properties  []Property `json:"properties" yaml:"properties"`
	Rules       []string   `json:"rules" yaml:"rules"`
	Actions     []string   `json:"actions" yaml:"actions"`
}

// Property is a "name: description" line of a Thing.
type Property struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Operation is a "## Name" block of the operations section.
type Operation struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Who           string   `json:"who" yaml:"who"`
	Inputs        []Input  `json:"inputs" yaml:"inputs"`
	Outputs       string   `json:"outputs" yaml:"outputs"`
	Conditions    []string `json:"conditions" yaml:"conditions"`
	Results       string   `json:"results" yaml:"results"`
	Notifications []string `json:"notifications" yaml:"notifications"`
}

// Input is a typed operation parameter.
type Input struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

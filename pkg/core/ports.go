package core

import "context"

// Parser turns raw requirements text into a Document.
// Implementations never fail: unrecognized structure yields empty fields.
type Parser interface {
	Parse(raw string) Document
}

// Inferrer derives a domain Model from a Document.
type Inferrer interface {
	Infer(doc Document) Model
}

// Generator renders a Model in the domain notation.
type Generator interface {
	Generate(m Model) string
}

// Transpiler converts domain notation into the API-schema notation.
type Transpiler interface {
	Transpile(notation string) string
}

// Source reads a whole input document.
type Source interface {
	// Read returns the full text at target. A missing target must wrap ErrInputNotFound.
	Read(ctx context.Context, target string) (string, error)
}

// Sink writes a whole output artifact.
// Adhering to this interface keeps the service independent of where artifacts
// land (local filesystem, object storage).
type Sink interface {
	// Write stores data at target, replacing any previous content.
	Write(ctx context.Context, target string, data []byte) error
}

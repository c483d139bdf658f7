package core

import (
	"fmt"
	"strings"
)

// Well-known role tokens produced by the permission rules.
const (
	RoleAdmin       = "ADMIN"
	RoleRegularUser = "REGULAR_USER"
)

// Model is the domain-driven design view inferred from a Document.
type Model struct {
	BoundedContext string         `json:"bounded_context" yaml:"bounded_context"`
	Description    string         `json:"description" yaml:"description"`
	Aggregates     []Aggregate    `json:"aggregates" yaml:"aggregates"`
	Entities       []Entity       `json:"entities" yaml:"entities"`
	ValueObjects   []ValueObject  `json:"value_objects" yaml:"value_objects"`
	Service        *DomainService `json:"domain_service,omitempty" yaml:"domain_service,omitempty"`
	Events         []DomainEvent  `json:"domain_events" yaml:"domain_events"`
	Repositories   []Repository   `json:"repositories" yaml:"repositories"`
	Relationships  []Term         `json:"relationships" yaml:"relationships"`
}

// HasValueObject reports whether a value object with the given name exists.
func (m *Model) HasValueObject(name string) bool {
	for _, vo := range m.ValueObjects {
		if vo.Name == name {
			return true
		}
	}
	return false
}

// HasEntity reports whether an entity named name exists.
func (m *Model) HasEntity(name string) bool {
	for _, e := range m.Entities {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Attribute is a typed field of an entity, value object or event.
type Attribute struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Behavior is a named operation attached to an entity.
type Behavior struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Entity is a domain object with identity.
type Entity struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Attributes  []Attribute `json:"attributes" yaml:"attributes"`
	Invariants  []string    `json:"invariants" yaml:"invariants"`
	Behaviors   []Behavior  `json:"behaviors" yaml:"behaviors"`
}

// Instance is a named member of an enumerated value object.
type Instance struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ValueObject is an identity-less domain object.
type ValueObject struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Attributes  []Attribute `json:"attributes" yaml:"attributes"`
	Invariants  []string    `json:"invariants" yaml:"invariants"`
	Instances   []Instance  `json:"instances,omitempty" yaml:"instances,omitempty"`
}

// Aggregate pairs an aggregate name with its root entity.
type Aggregate struct {
	Name string `json:"name" yaml:"name"`
	Root string `json:"root" yaml:"root"`
}

// Param is a named, typed method parameter.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Method is a repository operation signature.
type Method struct {
	Name    string  `json:"name" yaml:"name"`
	Params  []Param `json:"params" yaml:"params"`
	Returns string  `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Signature renders the method as "name(p: T): R".
func (m Method) Signature() string {
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		params = append(params, p.Name+": "+p.Type)
	}
	sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(params, ", "))
	if m.Returns != "" {
		sig += ": " + m.Returns
	}
	return sig
}

// Repository is the persistence port generated for an entity.
type Repository struct {
	Name    string   `json:"name" yaml:"name"`
	Entity  string   `json:"entity" yaml:"entity"`
	Methods []Method `json:"methods" yaml:"methods"`
}

// DomainEvent is derived from an operation notification.
type DomainEvent struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Attributes  []Attribute `json:"attributes" yaml:"attributes"`
}

// Permission is a boolean policy check for one operation.
type Permission struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Roles       []string `json:"roles" yaml:"roles"`
}

// Rule renders the roles as rule text. No roles yields an empty rule.
func (p Permission) Rule() string {
	switch len(p.Roles) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("True for %s role", p.Roles[0])
	default:
		return fmt.Sprintf("True for %s roles", strings.Join(p.Roles, " or "))
	}
}

// DomainService groups the permission checks of every operation.
type DomainService struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Behaviors   []Permission `json:"behaviors" yaml:"behaviors"`
}

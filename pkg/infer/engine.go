// Package infer derives a domain model from a parsed requirements document.
//
// Inference is a fixed, ordered rule table. Thing rules classify each Thing
// (first match wins), property rules and operation rules fire for every
// match. Callers can append their own rules with the With*Rules options.
package infer

import (
	"log/slog"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Defaults for the permission policy service.
const (
	DefaultPolicyName        = "InventoryPermissionPolicy"
	DefaultPolicyDescription = "Manages permissions for inventory operations."
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for rule tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithContextFallback sets the bounded context name used when the overview
// has no business area.
func WithContextFallback(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.contextFallback = name
		}
	}
}

// WithPolicy overrides the name and description of the permission service.
// Empty values keep the defaults.
func WithPolicy(name, description string) Option {
	return func(e *Engine) {
		if name != "" {
			e.policyName = name
		}
		if description != "" {
			e.policyDescription = description
		}
	}
}

// WithThingRules inserts rules ahead of the default classification.
func WithThingRules(rules ...ThingRule) Option {
	return func(e *Engine) {
		e.thingRules = append(append([]ThingRule{}, rules...), e.thingRules...)
	}
}

// WithPropertyRules appends property rules after the defaults.
func WithPropertyRules(rules ...PropertyRule) Option {
	return func(e *Engine) {
		e.propertyRules = append(e.propertyRules, rules...)
	}
}

// WithOperationRules appends operation rules after the defaults.
func WithOperationRules(rules ...OperationRule) Option {
	return func(e *Engine) {
		e.operationRules = append(e.operationRules, rules...)
	}
}

// Engine applies the rule table to a document.
type Engine struct {
	logger            *slog.Logger
	contextFallback   string
	policyName        string
	policyDescription string

	thingRules     []ThingRule
	propertyRules  []PropertyRule
	operationRules []OperationRule
}

// New creates an Engine with the default rule table.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:            slog.New(slog.DiscardHandler),
		contextFallback:   DefaultContextName,
		policyName:        DefaultPolicyName,
		policyDescription: DefaultPolicyDescription,
		thingRules:        DefaultThingRules(),
		propertyRules:     DefaultPropertyRules(),
		operationRules:    DefaultOperationRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Infer builds a new Model from doc. doc is not modified.
func (e *Engine) Infer(doc core.Document) core.Model {
	b := &Builder{
		Model: core.Model{
			BoundedContext: ContextName(doc.Overview.BusinessArea, e.contextFallback),
			Description:    doc.Overview.Description,
			Aggregates:     []core.Aggregate{},
			Entities:       []core.Entity{},
			ValueObjects:   []core.ValueObject{},
			Events:         []core.DomainEvent{},
			Repositories:   []core.Repository{},
			Relationships:  clone(doc.Connections),
		},
		Logger:            e.logger,
		policyName:        e.policyName,
		policyDescription: e.policyDescription,
	}

	for _, t := range doc.Things {
		for _, r := range e.thingRules {
			if r.Match(t) {
				e.logger.Debug("thing classified", "thing", t.Name, "rule", r.Name)
				r.Apply(b, t)
				break
			}
		}
	}

	for _, t := range doc.Things {
		for _, p := range t.Properties {
			for _, r := range e.propertyRules {
				if r.Match(p) {
					e.logger.Debug("property rule fired", "thing", t.Name, "property", p.Name, "rule", r.Name)
					r.Apply(b, t, p)
				}
			}
		}
	}

	for _, op := range doc.Operations {
		for _, r := range e.operationRules {
			if r.Match(op) {
				e.logger.Debug("operation rule fired", "operation", op.Name, "rule", r.Name)
				r.Apply(b, op)
			}
		}
	}

	return b.Model
}

var _ core.Inferrer = (*Engine)(nil)

// Package csl renders a domain model as brace-delimited domain notation.
package csl

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for block tracing.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Generator turns a core.Model into notation text.
type Generator struct {
	logger *slog.Logger
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders m. The output depends only on m.
func (g *Generator) Generate(m core.Model) string {
	w := &writer{}

	w.line(0, "BoundedContext %s {", m.BoundedContext)
	w.line(1, "description: %s", quote(m.Description))
	w.blank()

	for _, agg := range m.Aggregates {
		w.open(1, "Aggregate", agg.Name)
		w.line(2, "description: %s", quote(fmt.Sprintf("Represents a %s.", strings.ToLower(agg.Name))))
		w.line(2, "root: %s", agg.Root)
		w.close()
	}

	for _, e := range m.Entities {
		w.open(1, "Entity", e.Name)
		w.line(2, "description: %s", quote(e.Description))
		w.attributes(e.Attributes)
		w.invariants(e.Invariants)
		w.line(2, "behaviors: {")
		for _, b := range e.Behaviors {
			w.line(3, "%s: %s", b.Name, quote(b.Description))
		}
		w.line(2, "}")
		w.close()
	}

	for _, vo := range m.ValueObjects {
		w.open(1, "ValueObject", vo.Name)
		w.line(2, "description: %s", quote(vo.Description))
		w.attributes(vo.Attributes)
		w.invariants(vo.Invariants)
		if len(vo.Instances) > 0 {
			w.line(2, "instances: {")
			for _, inst := range vo.Instances {
				w.line(3, "%s: %s", inst.Name, quote(inst.Description))
			}
			w.line(2, "}")
		}
		w.close()
	}

	if svc := m.Service; svc != nil {
		w.open(1, "DomainService", svc.Name)
		w.line(2, "description: %s", quote(svc.Description))
		w.line(2, "behaviors: {")
		for _, p := range svc.Behaviors {
			w.line(3, "%s: Boolean", p.Name)
			w.line(4, "description: %s", quote(p.Description))
			w.line(4, "rule: %s", quote(p.Rule()))
		}
		w.line(2, "}")
		w.close()
	}

	for _, ev := range m.Events {
		w.open(1, "DomainEvent", ev.Name)
		w.line(2, "description: %s", quote(ev.Description))
		w.attributes(ev.Attributes)
		w.close()
	}

	for _, repo := range m.Repositories {
		w.open(1, "Repository", repo.Name)
		w.line(2, "description: %s", quote(fmt.Sprintf("Manages %s persistence.", repo.Entity)))
		w.line(2, "behaviors: {")
		for _, meth := range repo.Methods {
			w.line(3, "%s", meth.Signature())
		}
		w.line(2, "}")
		w.close()
	}

	w.line(0, "}")

	g.logger.Debug("notation generated",
		"context", m.BoundedContext,
		"blocks", len(m.Aggregates)+len(m.Entities)+len(m.ValueObjects)+len(m.Events)+len(m.Repositories),
	)
	return w.String()
}

var _ core.Generator = (*Generator)(nil)

// Attribute renders an attribute line body, "name: Type{c1, c2}".
func Attribute(a core.Attribute) string {
	s := a.Name + ": " + a.Type
	if len(a.Constraints) > 0 {
		s += "{" + strings.Join(a.Constraints, ", ") + "}"
	}
	return s
}

func quote(s string) string {
	return strconv.Quote(s)
}

type writer struct {
	strings.Builder
}

func (w *writer) line(depth int, format string, args ...any) {
	w.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) blank() {
	w.WriteByte('\n')
}

func (w *writer) open(depth int, kind, name string) {
	w.line(depth, "%s %s {", kind, name)
}

// close ends a top-level block and leaves a blank line after it.
func (w *writer) close() {
	w.line(1, "}")
	w.blank()
}

func (w *writer) attributes(attrs []core.Attribute) {
	w.line(2, "attributes: {")
	for _, a := range attrs {
		w.line(3, "%s", Attribute(a))
	}
	w.line(2, "}")
}

func (w *writer) invariants(invs []string) {
	w.line(2, "invariants: {")
	for i, inv := range invs {
		w.line(3, "I%d: %s", i+1, quote(inv))
	}
	w.line(2, "}")
}

// Package tsp converts domain notation into a TypeSpec API schema.
//
// The package carries its own notation parser and depends on nothing from
// the generation side beyond the shared text format.
package tsp

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Schema header defaults.
const (
	DefaultHost      = "api.example.com"
	DefaultVersion   = "1.0.0"
	DefaultNamespace = "UnnamedContext"
)

// Option configures a Transpiler.
type Option func(*Transpiler)

// WithLogger sets the logger used for tracing.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transpiler) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithHost sets the host written into the service header.
func WithHost(host string) Option {
	return func(t *Transpiler) {
		if host != "" {
			t.host = host
		}
	}
}

// WithVersion sets the version written into the service header.
func WithVersion(version string) Option {
	return func(t *Transpiler) {
		if version != "" {
			t.version = version
		}
	}
}

// Transpiler renders parsed notation as TypeSpec.
type Transpiler struct {
	logger  *slog.Logger
	host    string
	version string
}

// New creates a Transpiler.
func New(opts ...Option) *Transpiler {
	t := &Transpiler{
		logger:  slog.New(slog.DiscardHandler),
		host:    DefaultHost,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ core.Transpiler = (*Transpiler)(nil)

// Transpile converts notation text into schema text.
func (t *Transpiler) Transpile(notation string) string {
	n := ParseNotation(notation)
	ns := n.Context
	if ns == "" {
		ns = DefaultNamespace
	}

	w := &writer{}
	w.line("namespace %s;", ns)
	w.blank()
	w.line("@doc(%s)", strconv.Quote("Generated API from domain model"))
	w.line("service %sService {", ns)
	w.in()
	w.line("host: %s;", strconv.Quote(t.host))
	w.line("version: %s;", strconv.Quote(t.version))
	w.out()
	w.line("}")
	w.blank()

	for _, e := range n.Kind("Entity") {
		attrs := e.Attributes()
		t.model(w, e.Name, attrs)
		t.operations(w, e, attrs)
	}

	for _, vo := range n.Kind("ValueObject") {
		inst := vo.Sections["instances"]
		if len(inst) == 0 {
			continue
		}
		w.line("enum %s {", vo.Name)
		w.in()
		for _, i := range inst {
			w.line("@doc(%s)", strconv.Quote(unquote(i.Value)))
			w.line("%s,", i.Key)
		}
		w.out()
		w.line("}")
		w.blank()
	}

	t.logger.Debug("schema generated", "namespace", ns, "blocks", len(n.Blocks))
	return strings.TrimRight(w.String(), "\n") + "\n"
}

func (t *Transpiler) model(w *writer, name string, attrs []Attribute) {
	w.line("model %s {", name)
	w.in()
	for _, a := range attrs {
		opt := ""
		if a.Has("optional") {
			opt = "?"
		}
		w.line("%s%s: %s;", a.Name, opt, Scalar(a.Type))
	}
	w.out()
	w.line("}")
	w.blank()
}

// operations emits the entity's interface when at least one behavior
// maps to an endpoint.
func (t *Transpiler) operations(w *writer, e Block, attrs []Attribute) {
	body := &writer{depth: 1}
	var creates, deletes int
	for _, b := range e.Sections["behaviors"] {
		name := strings.ToLower(b.Key)
		switch {
		case strings.Contains(name, "add"):
			creates++
			t.createEndpoint(body, e.Name, numbered("create", creates), unquote(b.Value), attrs)
		case strings.Contains(name, "remove"):
			deletes++
			t.deleteEndpoint(body, e.Name, numbered("delete", deletes), unquote(b.Value), attrs)
		default:
			t.logger.Debug("behavior has no endpoint", "entity", e.Name, "behavior", b.Key)
		}
	}
	if creates+deletes == 0 {
		return
	}

	w.line("@route(%s)", strconv.Quote("/"+strings.ToLower(e.Name)+"s"))
	w.line("interface %sOperations {", e.Name)
	w.WriteString(strings.TrimRight(body.String(), "\n") + "\n")
	w.line("}")
	w.blank()
}

func (t *Transpiler) createEndpoint(w *writer, entity, op, doc string, attrs []Attribute) {
	w.line("@post")
	w.line("@doc(%s)", strconv.Quote(doc))

	var required []Attribute
	for _, a := range attrs {
		if a.Has("required") {
			required = append(required, a)
		}
	}
	if len(required) == 0 {
		w.line("%s(@body %s: {}): {", op, lowerFirst(entity))
	} else {
		w.line("%s(@body %s: {", op, lowerFirst(entity))
		w.in()
		for _, a := range required {
			w.line("%s: %s;", a.Name, Scalar(a.Type))
		}
		w.out()
		w.line("}): {")
	}
	w.in()
	w.line("@statusCode statusCode: 201;")
	w.line("@body created%s: %s;", entity, entity)
	w.out()
	w.line("} | {")
	w.in()
	w.line("@statusCode statusCode: 400;")
	w.line("@body error: string;")
	w.out()
	w.line("};")
	w.blank()
}

func (t *Transpiler) deleteEndpoint(w *writer, entity, op, doc string, attrs []Attribute) {
	param := lowerFirst(entity) + "Id"
	typ := "string"
	for _, a := range attrs {
		if a.Has("unique") {
			typ = Scalar(a.Type)
			break
		}
	}

	w.line("@delete")
	w.line("@route(%s)", strconv.Quote("/{"+param+"}"))
	w.line("@doc(%s)", strconv.Quote(doc))
	w.line("%s(@path %s: %s): {", op, param, typ)
	w.in()
	w.line("@statusCode statusCode: 204;")
	w.out()
	w.line("} | {")
	w.in()
	w.line("@statusCode statusCode: 404;")
	w.line("@body error: string;")
	w.out()
	w.line("};")
	w.blank()
}

// scalars maps notation types onto TypeSpec built-in scalars.
var scalars = map[string]string{
	"text":     "string",
	"string":   "string",
	"number":   "float64",
	"decimal":  "decimal",
	"integer":  "int32",
	"int":      "int32",
	"boolean":  "boolean",
	"bool":     "boolean",
	"date":     "plainDate",
	"datetime": "utcDateTime",
	"list":     "string[]",
}

// Scalar maps a notation type to a schema type. Unknown types are lower-cased.
func Scalar(typ string) string {
	lower := strings.ToLower(typ)
	if s, ok := scalars[lower]; ok {
		return s
	}
	return lower
}

func numbered(base string, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

type writer struct {
	strings.Builder
	depth int
}

func (w *writer) in()  { w.depth++ }
func (w *writer) out() { w.depth-- }

func (w *writer) line(format string, args ...any) {
	w.WriteString(strings.Repeat("  ", w.depth))
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) blank() {
	w.WriteByte('\n')
}

// Package prd parses loosely formatted product requirements documents into a
// core.Document.
//
// Parsing is tolerant by construction: a section or field that cannot be
// recognized is left empty and the parse continues. The parser never returns
// an error; diagnostics go to the injected logger.
package prd

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Section names after folding (lowercase, spaces to underscores).
const (
	SectionOverview    = "overview"
	SectionKeyTerms    = "key_terms"
	SectionFeatures    = "features"
	SectionThings      = "things"
	SectionOperations  = "operations"
	SectionConnections = "connections"
	SectionConstraints = "constraints"
)

var knownSections = map[string]bool{
	SectionOverview:    true,
	SectionKeyTerms:    true,
	SectionFeatures:    true,
	SectionThings:      true,
	SectionOperations:  true,
	SectionConnections: true,
	SectionConstraints: true,
}

var (
	blankRunRe = regexp.MustCompile(`\n\s*\n+`)
	tabRunRe   = regexp.MustCompile(`\t+`)
	headerRe   = regexp.MustCompile(`(?i)^\s*(#+)\s*(section\s*:\s*)?(.*?)\s*:?\s*$`)
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser is the structural parser. It holds no per-document state and is
// safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type section struct {
	name string
	body []string
}

// Parse converts raw document text into a Document.
func (p *Parser) Parse(raw string) core.Document {
	doc := core.NewDocument()

	sections := splitSections(Normalize(raw))
	if len(sections) == 0 {
		p.logger.Warn("no sections found, expected headers like '# Section: Overview' or '# Overview'")
		return doc
	}

	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.name)
	}
	p.logger.Debug("sections found", "count", len(sections), "names", names)

	for _, s := range sections {
		switch s.name {
		case SectionOverview:
			doc.Overview = parseOverview(s.body)
		case SectionKeyTerms:
			doc.KeyTerms = append(doc.KeyTerms, parseTerms(s.body)...)
		case SectionFeatures:
			doc.Features = append(doc.Features, parseTerms(s.body)...)
		case SectionConnections:
			doc.Connections = append(doc.Connections, parseTerms(s.body)...)
		case SectionConstraints:
			doc.Constraints = append(doc.Constraints, parseConstraints(s.body)...)
		case SectionThings:
			doc.Things = append(doc.Things, p.parseThings(s.body)...)
		case SectionOperations:
			doc.Operations = append(doc.Operations, p.parseOperations(s.body)...)
		default:
			p.logger.Debug("ignoring unknown section", "section", s.name)
		}
	}

	p.logger.Debug("document parsed",
		"things", len(doc.Things),
		"operations", len(doc.Operations),
		"key_terms", len(doc.KeyTerms),
		"constraints", len(doc.Constraints),
	)
	return doc
}

// Normalize collapses blank-line runs, converts tab runs to two spaces and
// unifies line endings.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)
	text = blankRunRe.ReplaceAllString(text, "\n")
	return tabRunRe.ReplaceAllString(text, "  ")
}

// FoldName lowercases a section name and joins its words with underscores.
func FoldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// splitSections splits normalized text on top-level section headers.
// Text before the first header is dropped.
func splitSections(text string) []section {
	var sections []section

	for _, line := range strings.Split(text, "\n") {
		if name, ok := sectionHeader(line); ok {
			sections = append(sections, section{name: name})
			continue
		}
		if n := len(sections); n > 0 {
			sections[n-1].body = append(sections[n-1].body, line)
		}
	}
	return sections
}

// sectionHeader reports whether line opens a top-level section. Deeper
// headers ("## Properties:", "## Add Book") stay inside the section body
// unless they carry the "Section:" prefix or name a known section.
func sectionHeader(line string) (string, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := FoldName(m[3])
	if name == "" {
		return "", false
	}
	if len(m[1]) == 1 || m[2] != "" || knownSections[name] {
		return name, true
	}
	return "", false
}

func isHeaderLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

package tsp

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// contextRe matches the bounded context header, e.g. "BoundedContext Shop {".
	contextRe = regexp.MustCompile(`^BoundedContext\s+(\w+)\s*\{$`)
	// blockRe matches a top-level block header, e.g. "Entity Book {".
	blockRe = regexp.MustCompile(`^(\w+)\s+(\w+)\s*\{$`)
	// sectionRe matches a named sub-block, e.g. "attributes: {" or "instances: {}".
	sectionRe = regexp.MustCompile(`^(\w+)\s*:\s*\{\s*(\})?$`)
	// attributeRe matches "Type" or "Type{c1, c2}" after the attribute name.
	attributeRe = regexp.MustCompile(`^(\w+)(?:\s*\{([^}]*)\})?`)
)

// Notation is the parsed form of a domain notation document.
type Notation struct {
	Context     string
	Description string
	Blocks      []Block
}

// Block is one named block such as an Entity or ValueObject.
type Block struct {
	Kind     string
	Name     string
	Fields   map[string]string
	Sections map[string][]Entry
}

// Entry is one line of a sub-block, split at its first colon.
type Entry struct {
	Key   string
	Value string
}

// Attribute is an attribute line decoded from an attributes sub-block.
type Attribute struct {
	Name        string
	Type        string
	Constraints []string
}

// Has reports whether the attribute carries constraint c.
func (a Attribute) Has(c string) bool {
	for _, x := range a.Constraints {
		if strings.EqualFold(x, c) {
			return true
		}
	}
	return false
}

// Kind filters blocks by kind, in document order.
func (n Notation) Kind(kind string) []Block {
	var out []Block
	for _, b := range n.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Attributes decodes the block's attributes sub-block.
func (b Block) Attributes() []Attribute {
	var out []Attribute
	for _, e := range b.Sections["attributes"] {
		m := attributeRe.FindStringSubmatch(e.Value)
		if m == nil || e.Key == "" {
			continue
		}
		attr := Attribute{Name: e.Key, Type: m[1]}
		for _, c := range strings.Split(m[2], ",") {
			if c = strings.TrimSpace(c); c != "" {
				attr.Constraints = append(attr.Constraints, c)
			}
		}
		out = append(out, attr)
	}
	return out
}

type frame int

const (
	frameContext frame = iota
	frameBlock
	frameSection
	frameSkip
)

// ParseNotation reads notation text. It tolerates unknown blocks and
// fields, and never fails: anything it cannot place is skipped.
func ParseNotation(text string) Notation {
	var (
		n       Notation
		stack   []frame
		cur     = -1
		section string
	)
	top := func() (frame, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		return stack[len(stack)-1], true
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		f, inside := top()

		switch {
		case line == "}":
			if inside {
				stack = stack[:len(stack)-1]
			}

		case inside && f == frameBlock && sectionRe.MatchString(line):
			m := sectionRe.FindStringSubmatch(line)
			section = m[1]
			if _, ok := n.Blocks[cur].Sections[section]; !ok {
				n.Blocks[cur].Sections[section] = []Entry{}
			}
			if m[2] == "" {
				stack = append(stack, frameSection)
			}

		case contextRe.MatchString(line):
			n.Context = contextRe.FindStringSubmatch(line)[1]
			stack = append(stack, frameContext)

		case (!inside || f == frameContext) && blockRe.MatchString(line):
			m := blockRe.FindStringSubmatch(line)
			n.Blocks = append(n.Blocks, Block{
				Kind:     m[1],
				Name:     m[2],
				Fields:   map[string]string{},
				Sections: map[string][]Entry{},
			})
			cur = len(n.Blocks) - 1
			stack = append(stack, frameBlock)

		case strings.HasSuffix(line, "{"):
			stack = append(stack, frameSkip)

		case inside && f == frameSection:
			key, value, _ := strings.Cut(line, ":")
			n.Blocks[cur].Sections[section] = append(n.Blocks[cur].Sections[section], Entry{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})

		case inside && f == frameBlock:
			if key, value, ok := strings.Cut(line, ":"); ok {
				n.Blocks[cur].Fields[strings.TrimSpace(key)] = unquote(value)
			}

		case inside && f == frameContext:
			if key, value, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(key) == "description" {
				n.Description = unquote(value)
			}
		}
	}
	return n
}

// unquote decodes a double-quoted value. Values that are not valid Go
// string literals only lose their surrounding quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return strings.Trim(s, `"`)
}

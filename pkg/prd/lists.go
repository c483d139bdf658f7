package prd

import (
	"regexp"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

var (
	bulletRe = regexp.MustCompile(`^(\s*)-\s+(.*\S)\s*$`)
	wordRe   = regexp.MustCompile(`^\w+$`)
	noneRe   = regexp.MustCompile(`\bNone\b`)
)

// item is one bulleted entry; continuation lines are folded into text.
type item struct {
	indent int
	text   string
}

// bullets collects the "- text" entries of lines. A non-bullet line continues
// the current entry; a header line ends it.
func bullets(lines []string) []item {
	var items []item
	open := false
	for _, line := range lines {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			items = append(items, item{indent: len(m[1]), text: strings.TrimSpace(m[2])})
			open = true
			continue
		}
		if isHeaderLine(line) {
			open = false
			continue
		}
		if t := strings.TrimSpace(line); t != "" && open {
			last := &items[len(items)-1]
			last.text += " " + t
		}
	}
	return items
}

// splitNamed splits "Name: description" on the first colon.
func splitNamed(text string) (name, desc string, ok bool) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(text[:idx])
	desc = strings.TrimSpace(text[idx+1:])
	return name, desc, name != ""
}

// flatten joins lines into a single space-separated string.
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// labeledFields captures "- Label: value" fields of body. Each value runs to
// the next known label or the end of body. Keys are the canonical labels;
// the first occurrence of a label wins. Only lines indented no deeper than
// the first label count as labels, so a nested "- results: text" item stays
// part of the field above it.
func labeledFields(body string, labels []string) map[string]string {
	canonical := make(map[string]string, len(labels))
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		canonical[strings.ToLower(l)] = l
		quoted = append(quoted, regexp.QuoteMeta(l))
	}
	re := regexp.MustCompile(`(?im)^([ ]*)-?[ ]*(` + strings.Join(quoted, "|") + `)[ ]*:`)

	var matches [][]int
	depth := -1
	for _, m := range re.FindAllStringSubmatchIndex(body, -1) {
		indent := m[3] - m[2]
		if depth < 0 {
			depth = indent
		}
		if indent > depth {
			continue
		}
		matches = append(matches, m)
	}

	fields := make(map[string]string, len(labels))
	for i, m := range matches {
		label := canonical[strings.ToLower(body[m[4]:m[5]])]
		if _, seen := fields[label]; seen {
			continue
		}
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		fields[label] = strings.TrimSpace(body[m[1]:end])
	}
	return fields
}

// listField reads a field holding a bulleted list. Without bullets, inline
// text becomes a single entry unless it says None.
func listField(raw string) []string {
	out := []string{}
	items := bullets(strings.Split(raw, "\n"))
	if len(items) > 0 {
		for _, it := range items {
			if isNone(it.text) {
				continue
			}
			out = append(out, it.text)
		}
		return out
	}
	v := flatten(raw)
	if v == "" || noneRe.MatchString(v) {
		return out
	}
	return append(out, v)
}

func isNone(text string) bool {
	return strings.TrimRight(strings.TrimSpace(text), ".") == "None"
}

func parseTerms(lines []string) []core.Term {
	terms := []core.Term{}
	for _, it := range bullets(lines) {
		name, desc, ok := splitNamed(it.text)
		if !ok {
			continue
		}
		terms = append(terms, core.Term{Name: name, Description: desc})
	}
	return terms
}

func parseConstraints(lines []string) []string {
	out := []string{}
	for _, it := range bullets(lines) {
		out = append(out, it.text)
	}
	return out
}

const (
	labelProductDescription = "Product Description"
	labelBusinessArea       = "Business Area"
	labelImportance         = "Importance"
)

func parseOverview(lines []string) core.Overview {
	fields := labeledFields(strings.Join(lines, "\n"), []string{
		labelProductDescription,
		labelBusinessArea,
		labelImportance,
	})
	return core.Overview{
		Description:  flatten(fields[labelProductDescription]),
		BusinessArea: flatten(fields[labelBusinessArea]),
		Importance:   flatten(fields[labelImportance]),
	}
}

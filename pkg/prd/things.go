package prd

import (
	"regexp"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

const (
	subProperties = "properties"
	subRules      = "rules"
	subActions    = "actions"
)

var (
	thingHeadRe  = regexp.MustCompile(`^-\s+(\w+):\s*(.*)$`)
	subsectionRe = regexp.MustCompile(`(?i)^\s*(?:#+\s*(properties|rules|actions)\s*:?|(properties|rules|actions)\s*:)\s*$`)
)

type thingBlock struct {
	name   string
	header string
	lines  []string
}

// subsectionName returns the folded subsection a line opens, if any.
func subsectionName(line string) (string, bool) {
	m := subsectionRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	return strings.ToLower(name), true
}

// splitThings splits the things section on top-level "- Name:" bullets. A
// bullet of that shape inside a subsection is a subsection item unless it is
// less indented than the subsection's items.
func splitThings(lines []string) []thingBlock {
	var blocks []thingBlock
	inSub := false
	itemIndent := -1

	for _, line := range lines {
		if _, ok := subsectionName(line); ok && len(blocks) > 0 {
			inSub = true
			itemIndent = -1
			blocks[len(blocks)-1].lines = append(blocks[len(blocks)-1].lines, line)
			continue
		}

		if m := thingHeadRe.FindStringSubmatch(line); m != nil && (!inSub || itemIndent > 0) {
			blocks = append(blocks, thingBlock{name: m[1], header: strings.TrimSpace(m[2])})
			inSub = false
			itemIndent = -1
			continue
		}

		if inSub && itemIndent < 0 {
			if m := bulletRe.FindStringSubmatch(line); m != nil {
				itemIndent = len(m[1])
			}
		}
		if n := len(blocks); n > 0 {
			blocks[n-1].lines = append(blocks[n-1].lines, line)
		}
	}
	return blocks
}

func (p *Parser) parseThings(lines []string) []core.Thing {
	blocks := splitThings(lines)
	things := make([]core.Thing, 0, len(blocks))
	for _, b := range blocks {
		t := p.parseThing(b)
		p.logger.Debug("thing parsed",
			"thing", t.Name,
			"properties", len(t.Properties),
			"rules", len(t.Rules),
			"actions", len(t.Actions),
		)
		things = append(things, t)
	}
	return things
}

func (p *Parser) parseThing(b thingBlock) core.Thing {
	var preamble []string
	var all []string
	subs := map[string][]string{}
	current := ""
	seenList := false

	for _, line := range b.lines {
		if name, ok := subsectionName(line); ok {
			current = name
			if _, exists := subs[name]; exists {
				p.logger.Warn("subsection repeated, merging into one thing",
					"thing", b.name,
					"subsection", name,
				)
			} else {
				subs[name] = []string{}
			}
			continue
		}
		all = append(all, line)
		if current != "" {
			subs[current] = append(subs[current], line)
			continue
		}
		if bulletRe.MatchString(line) {
			seenList = true
		}
		if !seenList {
			preamble = append(preamble, line)
		}
	}

	desc := flatten(b.header + " " + strings.Join(preamble, " "))
	allItems := bullets(all)

	t := core.Thing{
		Name:        b.name,
		Description: desc,
		Properties:  propertiesOf(bullets(subs[subProperties])),
		Rules:       textsOf(bullets(subs[subRules])),
		Actions:     textsOf(bullets(subs[subActions])),
	}

	if len(t.Properties) == 0 {
		t.Properties = propertiesFallback(allItems)
		if len(t.Properties) > 0 {
			p.logger.Debug("properties recovered by fallback", "thing", t.Name, "count", len(t.Properties))
		}
	}
	if len(t.Rules) == 0 {
		t.Rules = textsWith(allItems, "must")
		if len(t.Rules) > 0 {
			p.logger.Debug("rules recovered by fallback", "thing", t.Name, "count", len(t.Rules))
		}
	}
	if len(t.Actions) == 0 {
		t.Actions = textsWith(allItems, "needs")
		if len(t.Actions) > 0 {
			p.logger.Debug("actions recovered by fallback", "thing", t.Name, "count", len(t.Actions))
		}
	}
	return t
}

func propertiesOf(items []item) []core.Property {
	props := []core.Property{}
	for _, it := range items {
		name, desc, ok := splitNamed(it.text)
		if !ok || !wordRe.MatchString(name) {
			continue
		}
		props = append(props, core.Property{Name: name, Description: desc})
	}
	return props
}

// propertiesFallback keeps "name: description" items that do not read like
// rules ("must") or actions ("needs").
func propertiesFallback(items []item) []core.Property {
	props := []core.Property{}
	for _, p := range propertiesOf(items) {
		if containsFold(p.Description, "must") || containsFold(p.Description, "needs") {
			continue
		}
		props = append(props, p)
	}
	return props
}

func textsOf(items []item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.text)
	}
	return out
}

func textsWith(items []item, cue string) []string {
	out := []string{}
	for _, it := range items {
		if containsFold(it.text, cue) {
			out = append(out, it.text)
		}
	}
	return out
}

package prd

import (
	"regexp"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Labels of an operation block, in document order.
const (
	LabelDescription   = "Describe what the action does"
	LabelWho           = "Who Can Do It"
	LabelInputs        = "Inputs"
	LabelOutputs       = "Outputs"
	LabelConditions    = "Conditions"
	LabelResults       = "Results"
	LabelNotifications = "Notifications"
)

var operationLabels = []string{
	LabelDescription,
	LabelWho,
	LabelInputs,
	LabelOutputs,
	LabelConditions,
	LabelResults,
	LabelNotifications,
}

var (
	operationHeadRe = regexp.MustCompile(`^\s*#+\s*(.*?)\s*:?\s*$`)
	inputRe         = regexp.MustCompile(`^\s*-\s*(\w+)\s*:\s*(\w+)`)
)

type operationBlock struct {
	name  string
	lines []string
}

func splitOperations(lines []string) []operationBlock {
	var blocks []operationBlock
	for _, line := range lines {
		if m := operationHeadRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, operationBlock{name: m[1]})
			continue
		}
		if n := len(blocks); n > 0 {
			blocks[n-1].lines = append(blocks[n-1].lines, line)
		}
	}
	return blocks
}

func (p *Parser) parseOperations(lines []string) []core.Operation {
	ops := []core.Operation{}
	for _, b := range splitOperations(lines) {
		body := strings.Join(b.lines, "\n")
		if b.name == "" || strings.TrimSpace(body) == "" {
			p.logger.Debug("skipping empty operation block", "operation", b.name)
			continue
		}
		op := parseOperation(b.name, body)
		p.logger.Debug("operation parsed",
			"operation", op.Name,
			"inputs", len(op.Inputs),
			"notifications", len(op.Notifications),
		)
		ops = append(ops, op)
	}
	return ops
}

func parseOperation(name, body string) core.Operation {
	f := labeledFields(body, operationLabels)
	return core.Operation{
		Name:          name,
		Description:   flatten(f[LabelDescription]),
		Who:           flatten(f[LabelWho]),
		Inputs:        parseInputs(f[LabelInputs]),
		Outputs:       flatten(f[LabelOutputs]),
		Conditions:    listField(f[LabelConditions]),
		Results:       flatten(f[LabelResults]),
		Notifications: listField(f[LabelNotifications]),
	}
}

func parseInputs(raw string) []core.Input {
	inputs := []core.Input{}
	for _, line := range strings.Split(raw, "\n") {
		if m := inputRe.FindStringSubmatch(line); m != nil {
			inputs = append(inputs, core.Input{Name: m[1], Type: m[2]})
		}
	}
	return inputs
}

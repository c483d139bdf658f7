package infer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// DefaultContextName is used when the overview names no business area.
const DefaultContextName = "UnnamedContext"

// DefaultType is assigned to attributes whose description names no type.
const DefaultType = "String"

// ListType is the sequence type assigned to "list of ..." properties.
const ListType = "List"

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stripPunct removes every rune that is neither a word rune nor whitespace.
func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// words drops punctuation and splits what is left on whitespace, so
// "E-commerce" stays one word.
func words(s string) []string {
	return strings.Fields(stripPunct(s))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// UpperFirst upper-cases the first letter and keeps the rest as written.
func UpperFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// JoinCapitalized capitalizes every word of s and concatenates them,
// dropping punctuation and whitespace ("add book" -> "AddBook").
func JoinCapitalized(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// ContextName derives the bounded context name from the business area.
// Words keep their existing capitals ("API gateway" -> "APIGateway").
func ContextName(businessArea, fallback string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words(businessArea) {
		b.WriteString(caser.String(w))
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// splitDescription splits a property description into its leading type
// segment and the remaining constraint tokens.
func splitDescription(desc string) (string, []string) {
	segs := strings.Split(desc, ",")
	constraints := []string{}
	for _, s := range segs[1:] {
		if c := strings.TrimSpace(s); c != "" {
			constraints = append(constraints, c)
		}
	}
	return strings.TrimSpace(segs[0]), constraints
}

// SegmentType is the capitalized first comma-separated segment of desc.
func SegmentType(desc string) string {
	head, _ := splitDescription(desc)
	if t := Capitalize(head); t != "" {
		return t
	}
	return DefaultType
}

// AttributeType is SegmentType with the "list of" override applied.
func AttributeType(desc string) string {
	if containsFold(desc, "list of") {
		return ListType
	}
	return SegmentType(desc)
}

// Constraints returns the constraint tokens of a property description.
func Constraints(desc string) []string {
	_, c := splitDescription(desc)
	return c
}

// EventName derives an event name from the second and third words of a
// notification ("A book was added" -> "BookWas").
func EventName(notification string) string {
	tokens := strings.Fields(notification)
	if len(tokens) < 2 {
		return ""
	}
	end := min(3, len(tokens))
	return JoinCapitalized(strings.Join(tokens[1:end], " "))
}

// RolesFor maps an operation's "who" text to role tokens.
func RolesFor(who string) []string {
	if containsFold(who, "all users") {
		return []string{core.RoleAdmin, core.RoleRegularUser}
	}

	token := strings.ToUpper(strings.Join(words(who), " "))
	token = strings.TrimSpace(strings.TrimSuffix(" "+token, " ONLY"))
	if token == "" {
		return nil
	}
	return []string{token}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

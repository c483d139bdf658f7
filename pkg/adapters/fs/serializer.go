package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Serializer converts a value into a text format for dumps.
type Serializer interface {
	// Serialize converts v to bytes.
	Serialize(v any) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by
// file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// SerializerFor resolves a format name ("json", "yaml") or an extension
// (".yml").
func SerializerFor(format string) (Serializer, error) {
	ext := strings.ToLower(strings.TrimSpace(format))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s, ok := DefaultSerializers()[ext]
	if !ok {
		return nil, fmt.Errorf("%q: %w", format, core.ErrUnsupportedFormat)
	}
	return s, nil
}

// FormatOf returns the format implied by a path's extension, or "" when the
// extension is not a known dump format.
func FormatOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := DefaultSerializers()[ext]; !ok {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// --- JSON Serializer ---

// JSONSerializer writes indented JSON.
type JSONSerializer struct {
	Indent string
}

// NewJSONSerializer creates a JSON serializer with two-space indentation.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{Indent: "  "}
}

func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", s.Indent)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// --- YAML Serializer ---

type YAMLSerializer struct {
	Indent int
}

// NewYAMLSerializer creates a YAML serializer with two-space indentation.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{Indent: 2}
}

func (s *YAMLSerializer) Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(s.Indent)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file.
const ConfigFileName = "drzonst.yaml"

// Config mirrors drzonst.yaml.
type Config struct {
	ContextFallback string       `yaml:"context_fallback"`
	Policy          PolicyConfig `yaml:"policy"`
	Schema          SchemaConfig `yaml:"schema"`
	Output          OutputConfig `yaml:"output"`
	Workers         int          `yaml:"workers"`
	S3              S3Config     `yaml:"s3"`
}

// PolicyConfig names the permission service.
type PolicyConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SchemaConfig holds the schema header placeholders.
type SchemaConfig struct {
	Host    string `yaml:"host"`
	Version string `yaml:"version"`
}

// OutputConfig controls default output naming.
type OutputConfig struct {
	Extension       string `yaml:"extension"`
	SchemaExtension string `yaml:"schema_extension"`
}

// S3Config overrides the object storage environment.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// LoadConfig reads a configuration file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// DiscoverConfig looks for drzonst.yaml at the project root above
// startDir. It returns the zero Config and an empty path when none exists.
func DiscoverConfig(startDir string) (Config, string, error) {
	root, err := FindRoot(startDir)
	if err != nil {
		return Config{}, "", nil
	}
	path := filepath.Join(root, ConfigFileName)
	if !hasFile(root, ConfigFileName) {
		return Config{}, "", nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Options converts the file into functional options. Empty keys keep
// the defaults.
func (c Config) Options() []Option {
	var opts []Option
	if c.ContextFallback != "" {
		opts = append(opts, WithContextFallback(c.ContextFallback))
	}
	if c.Policy.Name != "" || c.Policy.Description != "" {
		opts = append(opts, WithPolicy(c.Policy.Name, c.Policy.Description))
	}
	if c.Schema.Host != "" {
		opts = append(opts, WithSchemaHost(c.Schema.Host))
	}
	if c.Schema.Version != "" {
		opts = append(opts, WithSchemaVersion(c.Schema.Version))
	}
	opts = append(opts,
		WithOutputSuffix(c.Output.Extension),
		WithSchemaExtension(c.Output.SchemaExtension),
		WithWorkers(c.Workers),
	)
	if c.S3 != (S3Config{}) {
		opts = append(opts, func(o *options) {
			if c.S3.Region != "" {
				o.s3.Region = c.S3.Region
			}
			if c.S3.Endpoint != "" {
				o.s3.Endpoint = c.S3.Endpoint
			}
			if c.S3.PathStyle {
				o.s3.PathStyle = true
			}
		})
	}
	return opts
}

package drzonst

import (
	"context"
	"log/slog"

	"github.com/ForestMars/DrZONST/internal/platform"
	"github.com/ForestMars/DrZONST/pkg/adapters/s3"
	"github.com/ForestMars/DrZONST/pkg/core"
	"github.com/ForestMars/DrZONST/pkg/infer"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// GenerateRequest describes a batch generate invocation.
type GenerateRequest = platform.GenerateRequest

// GenerateResult reports where one input's artifacts were written.
type GenerateResult = platform.GenerateResult

// Config mirrors the drzonst.yaml project file.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the pipeline.
type Option = platform.Option

// WithLogger sets the logger for every stage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithContextFallback sets the bounded context used when no business area is given.
func WithContextFallback(name string) Option {
	return platform.WithContextFallback(name)
}

// WithPolicy overrides the permission service name and description.
func WithPolicy(name, description string) Option {
	return platform.WithPolicy(name, description)
}

// WithSchemaHost sets the host placeholder of generated schemas.
func WithSchemaHost(host string) Option {
	return platform.WithSchemaHost(host)
}

// WithSchemaVersion sets the version placeholder of generated schemas.
func WithSchemaVersion(version string) Option {
	return platform.WithSchemaVersion(version)
}

// WithOutputSuffix sets the suffix of default notation paths.
func WithOutputSuffix(suffix string) Option {
	return platform.WithOutputSuffix(suffix)
}

// WithSchemaExtension sets the extension of default schema paths.
func WithSchemaExtension(ext string) Option {
	return platform.WithSchemaExtension(ext)
}

// WithWorkers bounds batch parallelism.
func WithWorkers(n int) Option {
	return platform.WithWorkers(n)
}

// WithSource injects a custom input reader.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithSink injects a custom output writer.
func WithSink(sink core.Sink) Option {
	return platform.WithSink(sink)
}

// WithS3 configures object storage for s3:// outputs.
func WithS3(cfg s3.Config) Option {
	return platform.WithS3(cfg)
}

// WithInferOptions passes options such as extra rules to the inference engine.
func WithInferOptions(opts ...infer.Option) Option {
	return platform.WithInferOptions(opts...)
}

// WithConfig applies a loaded drzonst.yaml.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// --- Factory ---

// New creates a conversion service.
func New(opts ...Option) *core.Service {
	return platform.New(opts...)
}

// --- Pipeline stages ---

// Parse turns requirements text into a document tree.
func Parse(raw string, opts ...Option) core.Document {
	return New(opts...).Parse(raw)
}

// Infer derives a domain model from a document tree.
func Infer(doc core.Document, opts ...Option) core.Model {
	return New(opts...).Infer(doc)
}

// Generate renders a domain model as notation text.
func Generate(m core.Model, opts ...Option) string {
	return New(opts...).Generate(m)
}

// Transpile converts notation text into schema text.
func Transpile(notation string, opts ...Option) string {
	return New(opts...).Transpile(notation)
}

// Convert runs parse, infer and generate over raw text.
func Convert(raw string, opts ...Option) core.Result {
	return New(opts...).Convert(raw)
}

// --- Operations ---

// ConvertFile converts one requirements file. An empty output is derived
// from the input path.
func ConvertFile(ctx context.Context, input, output string, opts ...Option) (core.Result, error) {
	results, err := platform.Generate(ctx, GenerateRequest{Inputs: []string{input}, Output: output}, opts...)
	if err != nil {
		return core.Result{}, err
	}
	return results[0].Result, nil
}

// GenerateFiles converts every input path or pattern in parallel.
func GenerateFiles(ctx context.Context, req GenerateRequest, opts ...Option) ([]GenerateResult, error) {
	return platform.Generate(ctx, req, opts...)
}

// TranspileFile converts a notation file and returns the schema path.
func TranspileFile(ctx context.Context, input, output string, opts ...Option) (string, error) {
	return platform.Transpile(ctx, input, output, opts...)
}

// ParseFile reads and parses one requirements file.
func ParseFile(ctx context.Context, input string, opts ...Option) (core.Document, error) {
	return platform.Parse(ctx, input, opts...)
}

// DumpFile parses a requirements file and serializes the document tree as
// "json" or "yaml". A non-empty output also receives the dump.
func DumpFile(ctx context.Context, input, output, format string, opts ...Option) ([]byte, error) {
	return platform.Dump(ctx, input, output, format, opts...)
}

// Watch regenerates outputs whenever an input changes, until ctx is done.
func Watch(ctx context.Context, req GenerateRequest, opts ...Option) error {
	return platform.Watch(ctx, req, opts...)
}

// --- Utils ---

// FindRoot looks upwards for a drzonst.yaml file or a .git directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadConfig reads a drzonst.yaml file.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// DiscoverConfig finds and loads drzonst.yaml above startDir.
func DiscoverConfig(startDir string) (Config, string, error) {
	return platform.DiscoverConfig(startDir)
}

package platform

import (
	"log/slog"
	"runtime"

	"github.com/ForestMars/DrZONST/pkg/adapters/s3"
	"github.com/ForestMars/DrZONST/pkg/core"
	"github.com/ForestMars/DrZONST/pkg/infer"
)

// Default output naming.
const (
	DefaultOutputSuffix    = "_domain_model.csl"
	DefaultSchemaExtension = ".tsp"
)

// options holds the internal configuration for a conversion service.
type options struct {
	logger            *slog.Logger
	contextFallback   string
	policyName        string
	policyDescription string
	host              string
	version           string
	outputSuffix      string
	schemaExt         string
	workers           int
	source            core.Source
	sink              core.Sink
	s3                s3.Config
	inferOpts         []infer.Option
}

// Option defines a functional option for configuring the pipeline.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:       slog.New(slog.DiscardHandler),
		outputSuffix: DefaultOutputSuffix,
		schemaExt:    DefaultSchemaExtension,
		workers:      runtime.NumCPU(),
		s3:           s3.ConfigFromEnv(),
	}
}

func resolve(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithContextFallback sets the bounded context name used when a document
// names no business area.
func WithContextFallback(name string) Option {
	return func(o *options) {
		o.contextFallback = name
	}
}

// WithPolicy overrides the permission service name and description.
func WithPolicy(name, description string) Option {
	return func(o *options) {
		o.policyName = name
		o.policyDescription = description
	}
}

// WithSchemaHost sets the host placeholder of generated schemas.
func WithSchemaHost(host string) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithSchemaVersion sets the version placeholder of generated schemas.
func WithSchemaVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithOutputSuffix sets the suffix that replaces an input's extension to
// form the default notation path.
func WithOutputSuffix(suffix string) Option {
	return func(o *options) {
		if suffix != "" {
			o.outputSuffix = suffix
		}
	}
}

// WithSchemaExtension sets the extension of default schema paths.
func WithSchemaExtension(ext string) Option {
	return func(o *options) {
		if ext != "" {
			o.schemaExt = ext
		}
	}
}

// WithWorkers bounds the number of documents converted in parallel.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSource injects a custom input reader.
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithSink injects a custom output writer. It replaces the default
// filesystem and object storage routing.
func WithSink(sink core.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithS3 sets the object storage configuration used for s3:// outputs.
func WithS3(cfg s3.Config) Option {
	return func(o *options) {
		o.s3 = cfg
	}
}

// WithInferOptions passes extra options, such as custom rules, to the
// inference engine.
func WithInferOptions(opts ...infer.Option) Option {
	return func(o *options) {
		o.inferOpts = append(o.inferOpts, opts...)
	}
}

// WithConfig applies a loaded configuration file. Explicit options given
// after it take precedence.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		for _, opt := range cfg.Options() {
			opt(o)
		}
	}
}

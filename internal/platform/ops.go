package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ForestMars/DrZONST/pkg/adapters/fs"
	"github.com/ForestMars/DrZONST/pkg/core"
)

// GenerateRequest describes one generate invocation.
type GenerateRequest struct {
	// Inputs are file paths or doublestar patterns ("docs/**/*.md").
	Inputs []string
	// Output overrides the notation path. Only valid for a single input.
	Output string
	// Schema also writes the transpiled schema.
	Schema bool
	// SchemaOutput overrides the schema path. Only valid for a single input.
	SchemaOutput string
}

// GenerateResult reports where one input's artifacts were written.
type GenerateResult struct {
	Input        string
	Output       string
	SchemaOutput string
	Result       core.Result
}

// OutputPath derives the default notation path by replacing the input's
// extension with suffix.
func OutputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// SchemaPath derives the default schema path from a notation path.
func SchemaPath(notation, ext string) string {
	return strings.TrimSuffix(notation, filepath.Ext(notation)) + ext
}

// ExpandInputs resolves paths and glob patterns into a sorted, duplicate
// free list. Plain paths are kept even when missing so the caller can
// report them; a pattern that matches nothing is an error.
func ExpandInputs(args []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrNoInputs, arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(filepath.Join(base, filepath.FromSlash(m)))
		}
	}

	if len(out) == 0 {
		return nil, core.ErrNoInputs
	}
	return out, nil
}

// Generate converts every input, running up to the configured number of
// documents in parallel. Each document is independent; the first failure
// cancels the remaining work.
func Generate(ctx context.Context, req GenerateRequest, opts ...Option) ([]GenerateResult, error) {
	o := resolve(opts)

	inputs, err := ExpandInputs(req.Inputs)
	if err != nil {
		return nil, err
	}
	if len(inputs) > 1 && (req.Output != "" || req.SchemaOutput != "") {
		return nil, core.ErrOutputConflict
	}

	svc := core.NewService(o.pipeline())
	results := make([]GenerateResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, input := range inputs {
		g.Go(func() error {
			res, err := generateOne(gctx, svc, o, input, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Debug("batch finished", "inputs", len(inputs), "workers", o.workers, "state", svc.State())
	return results, nil
}

func generateOne(ctx context.Context, svc *core.Service, o *options, input string, req GenerateRequest) (GenerateResult, error) {
	out := req.Output
	if out == "" {
		out = OutputPath(input, o.outputSuffix)
	}

	res, err := svc.ConvertFile(ctx, input, out)
	if err != nil {
		return GenerateResult{}, err
	}
	gr := GenerateResult{Input: input, Output: out, Result: res}

	if req.Schema {
		schemaOut := req.SchemaOutput
		if schemaOut == "" {
			schemaOut = SchemaPath(out, o.schemaExt)
		}
		if err := svc.WriteSchema(ctx, res.Notation, schemaOut); err != nil {
			return GenerateResult{}, err
		}
		gr.SchemaOutput = schemaOut
	}
	return gr, nil
}

// Transpile converts a notation file into a schema file. An empty output
// is derived from the input path.
func Transpile(ctx context.Context, input, output string, opts ...Option) (string, error) {
	o := resolve(opts)
	if output == "" {
		output = SchemaPath(input, o.schemaExt)
	}
	if err := core.NewService(o.pipeline()).TranspileFile(ctx, input, output); err != nil {
		return "", err
	}
	return output, nil
}

// Parse reads input and returns its document tree.
func Parse(ctx context.Context, input string, opts ...Option) (core.Document, error) {
	o := resolve(opts)
	p := o.pipeline()
	raw, err := p.Source.Read(ctx, input)
	if err != nil {
		return core.Document{}, fmt.Errorf("read %s: %w", input, err)
	}
	return core.NewService(p).Parse(raw), nil
}

// Dump parses input and serializes the document tree. The format falls
// back to the output extension, then to JSON. A non-empty output is also
// written through the sink.
func Dump(ctx context.Context, input, output, format string, opts ...Option) ([]byte, error) {
	if format == "" {
		format = fs.FormatOf(output)
	}
	if format == "" {
		format = "json"
	}
	ser, err := fs.SerializerFor(format)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	data, err := ser.Serialize(doc)
	if err != nil {
		return nil, err
	}

	if output != "" {
		if err := resolve(opts).pipeline().Sink.Write(ctx, output, data); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
	}
	return data, nil
}

// Watch runs Generate once and then again for every input that changes,
// until ctx is cancelled.
func Watch(ctx context.Context, req GenerateRequest, opts ...Option) error {
	o := resolve(opts)

	if _, err := Generate(ctx, req, opts...); err != nil {
		return err
	}

	inputs, err := ExpandInputs(req.Inputs)
	if err != nil {
		return err
	}
	svc := core.NewService(o.pipeline())

	w := fs.NewWatcher(inputs, func(ctx context.Context, path string) error {
		single := req
		single.Inputs = []string{path}
		res, err := generateOne(ctx, svc, o, path, single)
		if err != nil {
			return err
		}
		o.logger.Info("regenerated", "input", path, "output", res.Output)
		return nil
	}, fs.WithWatchLogger(o.logger))

	err = w.Run(ctx)
	o.logger.Debug("watch stopped", "watcher", w.State(), "service", svc.State())
	return err
}

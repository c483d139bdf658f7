// Package fs holds the local filesystem adapters: a Source for inputs, an
// atomic Sink for generated artifacts and a Watcher for watch mode.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// DefaultFileMode is the permission of written artifacts.
const DefaultFileMode os.FileMode = 0o644

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithFileMode sets the permission of written files.
func WithFileMode(perm os.FileMode) SinkOption {
	return func(s *Sink) {
		s.perm = perm
	}
}

// WithSinkLogger sets the sink logger.
func WithSinkLogger(l *slog.Logger) SinkOption {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sink writes artifacts to local files, creating parent directories.
type Sink struct {
	perm   os.FileMode
	logger *slog.Logger

	mu     sync.RWMutex
	writes int
	last   string
}

// NewSink creates a filesystem Sink.
func NewSink(opts ...SinkOption) *Sink {
	s := &Sink{
		perm:   DefaultFileMode,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write replaces target with data atomically.
func (s *Sink) Write(ctx context.Context, target string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if target == "" {
		return errors.New("empty output path")
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFileAtomic(target, data, s.perm); err != nil {
		return err
	}

	s.mu.Lock()
	s.writes++
	s.last = target
	s.mu.Unlock()

	s.logger.Debug("artifact written", "path", target, "bytes", len(data))
	return nil
}

// Source reads inputs from local files.
type Source struct{}

// NewSource creates a filesystem Source.
func NewSource() *Source {
	return &Source{}
}

// Read returns the content of target. Missing files wrap core.ErrInputNotFound.
func (s *Source) Read(ctx context.Context, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", core.ErrInputNotFound, target)
		}
		return "", err
	}
	return string(b), nil
}

var (
	_ core.Sink   = (*Sink)(nil)
	_ core.Source = (*Source)(nil)
)

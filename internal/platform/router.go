package platform

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/ForestMars/DrZONST/pkg/adapters/s3"
	"github.com/ForestMars/DrZONST/pkg/core"
)

// router sends s3:// targets to object storage and everything else to the
// local sink. The object storage client is created on first use.
type router struct {
	local  core.Sink
	cfg    s3.Config
	logger *slog.Logger

	mu     sync.Mutex
	remote core.Sink
	dial   func(ctx context.Context, cfg s3.Config) (core.Sink, error)
}

func newRouter(local core.Sink, cfg s3.Config, logger *slog.Logger) *router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg.Logger = logger
	return &router{
		local:  local,
		cfg:    cfg,
		logger: logger,
		dial: func(ctx context.Context, cfg s3.Config) (core.Sink, error) {
			return s3.New(ctx, cfg)
		},
	}
}

func (r *router) Write(ctx context.Context, target string, data []byte) error {
	if !s3.IsTarget(target) {
		return r.local.Write(ctx, target, data)
	}
	remote, err := r.remoteSink(ctx)
	if err != nil {
		return err
	}
	return remote.Write(ctx, target, data)
}

func (r *router) remoteSink(ctx context.Context) (core.Sink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remote != nil {
		return r.remote, nil
	}
	remote, err := r.dial(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("object storage sink ready", "region", r.cfg.Region, "endpoint", r.cfg.Endpoint)
	r.remote = remote
	return remote, nil
}

// RouterState exposes internal state for observability.
type RouterState struct {
	Local  any `json:"local,omitempty"`
	Remote any `json:"remote,omitempty"`
}

// State implements introspection.Introspectable.
func (r *router) State() any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var st RouterState
	if in, ok := r.local.(introspection.Introspectable); ok {
		st.Local = in.State()
	}
	if in, ok := r.remote.(introspection.Introspectable); ok {
		st.Remote = in.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (r *router) ComponentType() string {
	return "router-sink"
}

var _ core.Sink = (*router)(nil)
var _ introspection.Introspectable = (*router)(nil)
var _ introspection.Component = (*router)(nil)

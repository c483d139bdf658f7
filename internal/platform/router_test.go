package platform

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForestMars/DrZONST/pkg/adapters/fs"
	"github.com/ForestMars/DrZONST/pkg/adapters/s3"
	"github.com/ForestMars/DrZONST/pkg/core"
)

type recordingSink struct {
	targets []string
}

func (r *recordingSink) Write(_ context.Context, target string, _ []byte) error {
	r.targets = append(r.targets, target)
	return nil
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	remote := &recordingSink{}
	dials := 0

	r := newRouter(fs.NewSink(), s3.Config{Region: "us-east-1"}, nil)
	r.dial = func(context.Context, s3.Config) (core.Sink, error) {
		dials++
		return remote, nil
	}

	local := filepath.Join(t.TempDir(), "model.csl")
	require.NoError(t, r.Write(ctx, local, []byte("x")))
	require.NoError(t, r.Write(ctx, "s3://bucket/a.csl", []byte("x")))
	require.NoError(t, r.Write(ctx, "s3://bucket/a.tsp", []byte("x")))

	assert.FileExists(t, local)
	assert.Equal(t, []string{"s3://bucket/a.csl", "s3://bucket/a.tsp"}, remote.targets)
	assert.Equal(t, 1, dials)

	st := r.State().(RouterState)
	assert.Equal(t, fs.SinkState{Writes: 1, LastTarget: local}, st.Local)
	assert.Equal(t, "router-sink", r.ComponentType())
}

func TestRouter_DialFailure(t *testing.T) {
	r := newRouter(fs.NewSink(), s3.Config{}, defaultOptions().logger)
	boom := errors.New("no credentials")
	r.dial = func(context.Context, s3.Config) (core.Sink, error) { return nil, boom }

	err := r.Write(context.Background(), "s3://bucket/a.csl", []byte("x"))
	assert.ErrorIs(t, err, boom)
}

func TestNew_ServiceStateReachesRouter(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shop.md")
	sink := fs.NewSink()
	require.NoError(t, sink.Write(context.Background(), input, []byte("# Section: Overview\n- Business Area: Shop\n")))

	svc := New()
	_, err := svc.ConvertFile(context.Background(), input, filepath.Join(dir, "shop.csl"))
	require.NoError(t, err)

	state := svc.State().(core.ServiceState)
	assert.Equal(t, "router-sink", state.Sink)
	rs, ok := state.SinkState.(RouterState)
	require.True(t, ok)
	assert.Nil(t, rs.Remote)
	local, ok := rs.Local.(fs.SinkState)
	require.True(t, ok)
	assert.Equal(t, 1, local.Writes)
	assert.Equal(t, filepath.Join(dir, "shop.csl"), local.LastTarget)
}

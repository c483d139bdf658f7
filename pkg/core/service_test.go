package core_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// stubStages implements every pipeline stage with trivial transformations.
type stubStages struct{}

func (stubStages) Parse(raw string) core.Document {
	doc := core.NewDocument()
	doc.Overview.BusinessArea = strings.TrimSpace(raw)
	doc.Things = []core.Thing{{Name: "Book"}}
	return doc
}

func (stubStages) Infer(doc core.Document) core.Model {
	return core.Model{
		BoundedContext: doc.Overview.BusinessArea,
		Entities:       []core.Entity{{Name: "Book"}},
	}
}

func (stubStages) Generate(m core.Model) string {
	return "BoundedContext " + m.BoundedContext + " {\n}\n"
}

func (stubStages) Transpile(notation string) string {
	return "namespace " + strings.Fields(notation)[1] + ";\n"
}

// MemoryIO implements core.Source and core.Sink in memory.
type MemoryIO struct {
	files    map[string]string
	writeErr error
}

func NewMemoryIO() *MemoryIO {
	return &MemoryIO{files: map[string]string{}}
}

func (m *MemoryIO) Read(_ context.Context, target string) (string, error) {
	s, ok := m.files[target]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrInputNotFound, target)
	}
	return s, nil
}

func (m *MemoryIO) Write(_ context.Context, target string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[target] = string(data)
	return nil
}

func (m *MemoryIO) ComponentType() string { return "memory" }

func (m *MemoryIO) State() any { return len(m.files) }

func newService(io *MemoryIO) *core.Service {
	s := stubStages{}
	return core.NewService(core.Pipeline{
		Parser:     s,
		Inferrer:   s,
		Generator:  s,
		Transpiler: s,
		Source:     io,
		Sink:       io,
	})
}

func TestService_Convert(t *testing.T) {
	svc := newService(NewMemoryIO())

	res := svc.Convert("Shop")
	assert.Equal(t, "Shop", res.Document.Overview.BusinessArea)
	assert.Equal(t, "Shop", res.Model.BoundedContext)
	assert.Equal(t, "BoundedContext Shop {\n}\n", res.Notation)

	state := svc.State().(core.ServiceState)
	assert.Equal(t, 1, state.Runs)
	require.NotNil(t, state.LastRun)
	assert.Equal(t, 1, state.LastRun.Things)
	assert.Equal(t, 1, state.LastRun.Entities)
	assert.NotEmpty(t, state.LastRun.ID)
	assert.Equal(t, "memory", state.Sink)
	assert.Equal(t, 0, state.SinkState)
}

func TestService_ConvertFile(t *testing.T) {
	ctx := context.Background()
	io := NewMemoryIO()
	io.files["shop.md"] = "Shop"
	svc := newService(io)

	res, err := svc.ConvertFile(ctx, "shop.md", "shop.csl")
	require.NoError(t, err)
	assert.Equal(t, res.Notation, io.files["shop.csl"])

	last := svc.State().(core.ServiceState).LastRun
	require.NotNil(t, last)
	assert.Equal(t, "shop.md", last.Input)
}

func TestService_ConvertFile_MissingInput(t *testing.T) {
	io := NewMemoryIO()
	svc := newService(io)

	_, err := svc.ConvertFile(context.Background(), "missing.md", "out.csl")
	assert.True(t, errors.Is(err, core.ErrInputNotFound))
	assert.NotContains(t, io.files, "out.csl")
	assert.Equal(t, 0, svc.State().(core.ServiceState).Runs)
}

func TestService_ConvertFile_WriteFailure(t *testing.T) {
	io := NewMemoryIO()
	io.files["shop.md"] = "Shop"
	io.writeErr = errors.New("disk full")
	svc := newService(io)

	_, err := svc.ConvertFile(context.Background(), "shop.md", "shop.csl")
	assert.ErrorIs(t, err, io.writeErr)
	assert.Contains(t, err.Error(), "write shop.csl")
}

func TestService_TranspileFile(t *testing.T) {
	ctx := context.Background()
	io := NewMemoryIO()
	io.files["shop.csl"] = "BoundedContext Shop {\n}\n"
	svc := newService(io)

	require.NoError(t, svc.TranspileFile(ctx, "shop.csl", "shop.tsp"))
	assert.Equal(t, "namespace Shop;\n", io.files["shop.tsp"])

	err := svc.TranspileFile(ctx, "nope.csl", "nope.tsp")
	assert.ErrorIs(t, err, core.ErrInputNotFound)
}

func TestService_WithoutIO(t *testing.T) {
	s := stubStages{}
	svc := core.NewService(core.Pipeline{Parser: s, Inferrer: s, Generator: s, Transpiler: s})

	assert.Equal(t, "Shop", svc.Parse("Shop").Overview.BusinessArea)
	assert.Equal(t, "namespace Shop;\n", svc.Transpile("BoundedContext Shop {"))

	_, err := svc.ConvertFile(context.Background(), "a", "b")
	assert.Error(t, err)
	assert.Equal(t, "none", svc.State().(core.ServiceState).Sink)
	assert.Equal(t, "service", svc.ComponentType())
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Pipeline bundles the collaborators of a Service.
type Pipeline struct {
	Parser     Parser
	Inferrer   Inferrer
	Generator  Generator
	Transpiler Transpiler
	Source     Source
	Sink       Sink
	Logger     *slog.Logger
}

// Result is the snapshot of one conversion run.
type Result struct {
	Document Document
	Model    Model
	Notation string
}

// Service moves documents through parse, infer and generate.
type Service struct {
	p Pipeline

	mu      sync.RWMutex
	runs    int
	lastRun *RunSummary
}

// RunSummary records the shape of the last conversion.
type RunSummary struct {
	ID           string `json:"id"`
	Input        string `json:"input,omitempty"`
	Things       int    `json:"things"`
	Operations   int    `json:"operations"`
	Entities     int    `json:"entities"`
	ValueObjects int    `json:"value_objects"`
	Events       int    `json:"events"`
}

// NewService creates a new Service.
func NewService(p Pipeline) *Service {
	if p.Logger == nil {
		p.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{p: p}
}

// Convert runs the pure pipeline over raw text.
func (s *Service) Convert(raw string) Result {
	return s.convert(raw, "")
}

func (s *Service) convert(raw, input string) Result {
	runID := uuid.NewString()
	logger := s.p.Logger.With("run", runID)
	if input != "" {
		logger = logger.With("input", input)
	}

	doc := s.p.Parser.Parse(raw)
	logger.Debug("document parsed", "things", len(doc.Things), "operations", len(doc.Operations))

	model := s.p.Inferrer.Infer(doc)
	logger.Debug("model inferred",
		"context", model.BoundedContext,
		"entities", len(model.Entities),
		"value_objects", len(model.ValueObjects),
		"events", len(model.Events),
	)

	notation := s.p.Generator.Generate(model)

	s.record(RunSummary{
		ID:           runID,
		Input:        input,
		Things:       len(doc.Things),
		Operations:   len(doc.Operations),
		Entities:     len(model.Entities),
		ValueObjects: len(model.ValueObjects),
		Events:       len(model.Events),
	})

	return Result{Document: doc, Model: model, Notation: notation}
}

// Parse exposes the structural parser alone.
func (s *Service) Parse(raw string) Document {
	return s.p.Parser.Parse(raw)
}

// Infer exposes the inference engine alone.
func (s *Service) Infer(doc Document) Model {
	return s.p.Inferrer.Infer(doc)
}

// Generate exposes the notation generator alone.
func (s *Service) Generate(m Model) string {
	return s.p.Generator.Generate(m)
}

// Transpile converts domain notation text into schema text.
func (s *Service) Transpile(notation string) string {
	return s.p.Transpiler.Transpile(notation)
}

// ConvertFile reads input, converts it and writes the notation to output.
// Nothing is written when reading fails.
func (s *Service) ConvertFile(ctx context.Context, input, output string) (Result, error) {
	if err := s.checkIO(); err != nil {
		return Result{}, err
	}

	raw, err := s.p.Source.Read(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", input, err)
	}

	res := s.convert(raw, input)
	if err := s.p.Sink.Write(ctx, output, []byte(res.Notation)); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", output, err)
	}

	s.p.Logger.Info("domain model generated", "input", input, "output", output)
	return res, nil
}

// TranspileFile reads notation from input and writes the schema to output.
func (s *Service) TranspileFile(ctx context.Context, input, output string) error {
	if err := s.checkIO(); err != nil {
		return err
	}

	notation, err := s.p.Source.Read(ctx, input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	if err := s.WriteSchema(ctx, notation, output); err != nil {
		return err
	}
	s.p.Logger.Info("schema generated", "input", input, "output", output)
	return nil
}

// WriteSchema transpiles notation and writes the result to output.
func (s *Service) WriteSchema(ctx context.Context, notation, output string) error {
	if s.p.Sink == nil {
		return errors.New("service has no sink configured")
	}
	schema := s.p.Transpiler.Transpile(notation)
	if err := s.p.Sink.Write(ctx, output, []byte(schema)); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

func (s *Service) checkIO() error {
	if s.p.Source == nil {
		return errors.New("service has no source configured")
	}
	if s.p.Sink == nil {
		return errors.New("service has no sink configured")
	}
	return nil
}

func (s *Service) record(sum RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = &sum
}

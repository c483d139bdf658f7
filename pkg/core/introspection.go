package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Runs      int         `json:"runs"`
	Sink      string      `json:"sink"`
	SinkState any         `json:"sink_state,omitempty"`
	LastRun   *RunSummary `json:"last_run,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sinkType := "none"
	var sinkState any
	if s.p.Sink != nil {
		sinkType = "sink"
		if comp, ok := s.p.Sink.(introspection.Component); ok {
			sinkType = comp.ComponentType()
		}
		if in, ok := s.p.Sink.(introspection.Introspectable); ok {
			sinkState = in.State()
		}
	}

	var last *RunSummary
	if s.lastRun != nil {
		cp := *s.lastRun
		last = &cp
	}

	return ServiceState{
		Runs:      s.runs,
		Sink:      sinkType,
		SinkState: sinkState,
		LastRun:   last,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)

package fs

import (
	"slices"
	"time"

	"github.com/aretw0/introspection"
)

// SinkState exposes internal state for observability.
type SinkState struct {
	Writes     int    `json:"writes"`
	LastTarget string `json:"last_target,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Sink) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SinkState{Writes: s.writes, LastTarget: s.last}
}

// ComponentType implements introspection.Component.
func (s *Sink) ComponentType() string {
	return "fs-sink"
}

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Paths      []string   `json:"paths"`
	Active     bool       `json:"active"`
	Runs       int        `json:"runs"`
	Unchanged  int        `json:"unchanged"`
	LastChange *time.Time `json:"last_change,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	var last *time.Time
	if w.lastChange != nil {
		t := *w.lastChange
		last = &t
	}

	return WatcherState{
		Paths:      paths,
		Active:     w.active,
		Runs:       w.runs,
		Unchanged:  w.unchanged,
		LastChange: last,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "fs-watcher"
}

var _ introspection.Introspectable = (*Sink)(nil)
var _ introspection.Component = (*Sink)(nil)
var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

func (w *Watcher) recordChange() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.lastChange = &now
	w.runs++
}

func (w *Watcher) recordUnchanged() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unchanged++
}

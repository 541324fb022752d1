// Package report collects search progress and summarizes and compares runs.
package report

import (
	"sync"

	"github.com/pdrpinto/gridsearch"
)

// Recorder is an Observer that keeps the ordered event trace of a run. It
// may be read while the run is still emitting.
type Recorder struct {
	mu     sync.Mutex
	events []gridsearch.Event
}

var _ gridsearch.Observer = (*Recorder)(nil)

// OnEvent appends ev to the trace.
func (r *Recorder) OnEvent(ev gridsearch.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Trace returns a copy of every event received so far.
func (r *Recorder) Trace() []gridsearch.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gridsearch.Event(nil), r.events...)
}

// Explored returns the explored states in acceptance order.
func (r *Recorder) Explored() []gridsearch.State { return r.states(gridsearch.PhaseExplored) }

// Path returns the path states in start to goal order.
func (r *Recorder) Path() []gridsearch.State { return r.states(gridsearch.PhasePath) }

// Len returns the number of events received.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops the trace so the recorder can follow another run.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *Recorder) states(phase gridsearch.Phase) []gridsearch.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var states []gridsearch.State
	for _, ev := range r.events {
		if ev.Phase == phase {
			states = append(states, ev.State)
		}
	}
	return states
}

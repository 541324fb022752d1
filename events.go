package gridsearch

// Phase labels a progress event.
type Phase string

const (
	// PhaseExplored is emitted once per accepted pop.
	PhaseExplored Phase = "explored"
	// PhasePath is emitted for each cell of a found path, start first.
	PhasePath Phase = "path"
)

// Event is a progress notification. Seq increases by one per event within a run.
type Event struct {
	State State `json:"state"`
	Phase Phase `json:"phase"`
	Seq   int   `json:"seq"`
}

// ProgressFunc receives progress events. It must not block for long: the
// search waits for it to return.
type ProgressFunc func(Event)

// Observer is the interface form of ProgressFunc.
type Observer interface {
	OnEvent(Event)
}

type emitter struct {
	subscribers []ProgressFunc
	seq         int
}

func (e *emitter) emit(state State, phase Phase) {
	if len(e.subscribers) == 0 {
		return
	}
	ev := Event{State: state, Phase: phase, Seq: e.seq}
	e.seq++
	for _, fn := range e.subscribers {
		fn(ev)
	}
}

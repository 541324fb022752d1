package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/maze"
)

var (
	errTooManySessions = errors.New("too many open sessions")
	errNoSession       = errors.New("session not found")
)

// session is one stepping search. Step calls are serialized by mu since a
// Stepper is not safe for concurrent use.
type session struct {
	id       string
	maze     *maze.Maze
	strategy gridsearch.Strategy
	created  time.Time

	mu       sync.Mutex
	stepper  *gridsearch.Stepper
	last     gridsearch.StepSnapshot
	reported bool
}

// step advances up to n expansions and returns the latest snapshot. done is
// true the first time the run is seen terminal.
func (s *session) step(ctx context.Context, n int) (snap gridsearch.StepSnapshot, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.last, err = s.stepper.Step(ctx)
		if err != nil || s.last.Done() {
			break
		}
	}
	if s.last.Done() && !s.reported {
		s.reported = true
		done = true
	}
	return s.last, done, err
}

func (s *session) snapshot() gridsearch.StepSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *session) result() (gridsearch.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepper.Result()
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepper.Close()
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	max      int
}

func newSessionStore(max int) *sessionStore {
	return &sessionStore{sessions: make(map[string]*session), max: max}
}

func (st *sessionStore) add(m *maze.Maze, strategy gridsearch.Strategy, stepper *gridsearch.Stepper) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return nil, errTooManySessions
	}
	s := &session{
		id:       uuid.NewString(),
		maze:     m,
		strategy: strategy,
		created:  time.Now(),
		stepper:  stepper,
	}
	st.sessions[s.id] = s
	return s, nil
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}

func (st *sessionStore) remove(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, errNoSession
	}
	delete(st.sessions, id)
	return s, nil
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// closeAll cancels every open run.
func (st *sessionStore) closeAll() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := len(st.sessions)
	for id, s := range st.sessions {
		s.close()
		delete(st.sessions, id)
	}
	return n
}

package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/pagewatch"
)

var _ pagewatch.StateStore = (*StateStore)(nil)

// StateStore is a mock implementation of pagewatch.StateStore.
type StateStore struct {
	LoadStateFn func(ctx context.Context, target string) (*pagewatch.MonitorState, error)
	SaveStateFn func(ctx context.Context, target string, state *pagewatch.MonitorState) error
}

func (s *StateStore) LoadState(ctx context.Context, target string) (*pagewatch.MonitorState, error) {
	return s.LoadStateFn(ctx, target)
}

func (s *StateStore) SaveState(ctx context.Context, target string, state *pagewatch.MonitorState) error {
	return s.SaveStateFn(ctx, target, state)
}

var _ pagewatch.StateStore = (*MemoryStateStore)(nil)

// MemoryStateStore is an in-memory pagewatch.StateStore for tests.
// States are copied on the way in and out so callers cannot alias stored data.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]*pagewatch.MonitorState
	saves  int
}

// NewMemoryStateStore returns an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]*pagewatch.MonitorState)}
}

func (s *MemoryStateStore) LoadState(_ context.Context, target string) (*pagewatch.MonitorState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[target]; ok {
		return st.Clone(), nil
	}
	return &pagewatch.MonitorState{}, nil
}

func (s *MemoryStateStore) SaveState(_ context.Context, target string, state *pagewatch.MonitorState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[target] = state.Clone()
	s.saves++
	return nil
}

// Put seeds the stored state for target without counting as a save.
func (s *MemoryStateStore) Put(target string, state *pagewatch.MonitorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[target] = state.Clone()
}

// Get returns a copy of the stored state for target, or nil.
func (s *MemoryStateStore) Get(target string) *pagewatch.MonitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[target]; ok {
		return st.Clone()
	}
	return nil
}

// Saves returns how many times SaveState has been called.
func (s *MemoryStateStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

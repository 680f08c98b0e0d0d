package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/planlaunch/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Run),
	}
}

// Save persists a copy of the run.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	copied := cloneRun(run)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = copied
	return nil
}

// Load retrieves a copy of the run so callers can't mutate the store by pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return cloneRun(run), nil
}

// List returns all runs, most recently started first.
func (s *Store) List(ctx context.Context) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.Run, 0, len(s.data))
	for _, run := range s.data {
		runs = append(runs, *cloneRun(run))
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

func cloneRun(run *domain.Run) *domain.Run {
	c := *run
	if run.Arguments != nil {
		c.Arguments = make(map[string]string, len(run.Arguments))
		for k, v := range run.Arguments {
			c.Arguments[k] = v
		}
	}
	if run.Processes != nil {
		c.Processes = make([]domain.ProcessRecord, len(run.Processes))
		copy(c.Processes, run.Processes)
	}
	return &c
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// ResearchStore is a simple in-memory implementation of domain.DataStore.
// It is NOT persistent and is only suitable for development / dry runs.
type ResearchStore struct {
	mu      sync.RWMutex
	records map[domain.ResearchID]*domain.SessionState
	saves   map[domain.ResearchID]int
}

// NewResearchStore creates a new in-memory DataStore.
func NewResearchStore() *ResearchStore {
	return &ResearchStore{
		records: make(map[domain.ResearchID]*domain.SessionState),
		saves:   make(map[domain.ResearchID]int),
	}
}

// SaveSnapshot replaces the stored record with a copy of state.
func (s *ResearchStore) SaveSnapshot(_ context.Context, state *domain.SessionState) error {
	if state == nil || state.ResearchID == "" {
		return fmt.Errorf("%w: snapshot without research id", domain.ErrPersistence)
	}
	c := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[c.ResearchID] = c
	s.saves[c.ResearchID]++
	return nil
}

// LoadSnapshot returns a copy of the latest snapshot.
func (s *ResearchStore) LoadSnapshot(_ context.Context, id domain.ResearchID) (*domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: research %s", domain.ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// ListSnapshots returns the latest snapshot of each session, most recently
// updated first. If limit <= 0, returns all.
func (s *ResearchStore) ListSnapshots(_ context.Context, limit int) ([]*domain.SessionState, error) {
	s.mu.RLock()
	out := make([]*domain.SessionState, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	sortByUpdated(out)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// SaveCount reports how many snapshots were written for id.
func (s *ResearchStore) SaveCount(id domain.ResearchID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves[id]
}

func sortByUpdated(states []*domain.SessionState) {
	sort.Slice(states, func(i, j int) bool {
		if !states[i].UpdatedAt.Equal(states[j].UpdatedAt) {
			return states[i].UpdatedAt.After(states[j].UpdatedAt)
		}
		return states[i].ResearchID < states[j].ResearchID
	})
}

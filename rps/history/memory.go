package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory history store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record // sessionID -> rounds
	closed  bool
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]Record),
	}
}

// Append implements Store. Appending a round number that the session
// already has replaces it.
func (m *MemoryStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	r.PlayedAt = r.PlayedAt.UTC()
	s := m.records[r.SessionID]
	for i := range s {
		if s[i].Round == r.Round {
			s[i] = r
			return nil
		}
	}
	m.records[r.SessionID] = append(s, r)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, sessionID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s := m.records[sessionID]
	if len(s) == 0 {
		return nil, nil
	}
	// Return a copy so callers cannot modify the stored rounds.
	r := make([]Record, len(s))
	copy(r, s)
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Round < r[j].Round
	})
	return r, nil
}

// Totals implements Store.
func (m *MemoryStore) Totals(ctx context.Context, sessionID string) (Totals, error) {
	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Totals{}, ErrStoreClosed
	}

	var t Totals
	for id, s := range m.records {
		if sessionID != "" && id != sessionID {
			continue
		}
		for _, r := range s {
			t.add(r.Outcome)
		}
	}
	return t, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}

// Len returns the total number of rounds across all sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, s := range m.records {
		n += len(s)
	}
	return n
}

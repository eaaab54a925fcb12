package intelligence

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"bookingagent/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryContextStore keeps contexts in process. Entries are stored encoded so
// callers never share state with the store.
type MemoryContextStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	return &MemoryContextStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryContextStore) Get(_ context.Context, sessionID string) (*models.Context, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, nil
	}

	var c models.Context
	if err := json.Unmarshal(e.data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryContextStore) Set(_ context.Context, c *models.Context) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[c.SessionID] = memoryEntry{data: b, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryContextStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ids := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

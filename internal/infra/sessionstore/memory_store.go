package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
)

type snapshotRecord struct {
	payload   moonview.Snapshot
	expiresAt time.Time
}

// MemoryStore keeps session snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]snapshotRecord
	now   func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snaps: make(map[string]snapshotRecord),
		now:   time.Now,
	}
}

// Load implements session.Store.
func (s *MemoryStore) Load(_ context.Context, id string) (moonview.Snapshot, bool, error) {
	s.mu.RLock()
	record, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return moonview.Snapshot{}, false, nil
	}
	if s.expired(record.expiresAt) {
		s.mu.Lock()
		delete(s.snaps, id)
		s.mu.Unlock()
		return moonview.Snapshot{}, false, nil
	}
	return record.payload, true, nil
}

// Save stores the snapshot with an optional TTL.
func (s *MemoryStore) Save(_ context.Context, id string, snap moonview.Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.snaps[id] = snapshotRecord{payload: snap, expiresAt: exp}
	s.sweepLocked()
	return nil
}

// Delete implements session.Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.snaps, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) sweepLocked() {
	for id, record := range s.snaps {
		if s.expired(record.expiresAt) {
			delete(s.snaps, id)
		}
	}
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ session.Store = (*MemoryStore)(nil)

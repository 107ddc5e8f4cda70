package session

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store. Snapshots are lost on
// restart; use RedisStore or BoltStore to keep them.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry // nil once closed
	stop    chan struct{}
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore, *time.Duration)

// WithCleanupInterval sets how often expired snapshots are pruned.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(_ *MemoryStore, interval *time.Duration) {
		*interval = d
	}
}

// NewMemoryStore creates an in-memory store and starts its pruning loop.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	interval := time.Minute
	for _, opt := range opts {
		opt(m, &interval)
	}

	go m.pruneEvery(interval)
	return m
}

// update runs fn on the entries under the write lock, or fails once the
// store is closed.
func (m *MemoryStore) update(fn func(entries map[string]memoryEntry)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return ErrStoreClosed{}
	}
	fn(m.entries)
	return nil
}

// Save stores a copy of data until expiresAt.
func (m *MemoryStore) Save(_ context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	return m.update(func(entries map[string]memoryEntry) {
		entries[sessionID] = memoryEntry{data: bytes.Clone(data), expiresAt: expiresAt}
	})
}

// Load returns a copy of the data, or nil when missing or expired.
func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrStoreClosed{}
	}

	e, ok := m.entries[sessionID]
	if !ok || m.now().After(e.expiresAt) {
		return nil, nil
	}
	return bytes.Clone(e.data), nil
}

// Delete removes a snapshot.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	return m.update(func(entries map[string]memoryEntry) {
		delete(entries, sessionID)
	})
}

// Touch moves the expiry of an existing snapshot.
func (m *MemoryStore) Touch(_ context.Context, sessionID string, expiresAt time.Time) error {
	return m.update(func(entries map[string]memoryEntry) {
		if e, ok := entries[sessionID]; ok {
			e.expiresAt = expiresAt
			entries[sessionID] = e
		}
	})
}

// Prune deletes expired snapshots and reports how many were removed.
func (m *MemoryStore) Prune() (int, error) {
	removed := 0
	err := m.update(func(entries map[string]memoryEntry) {
		now := m.now()
		for id, e := range entries {
			if now.After(e.expiresAt) {
				delete(entries, id)
				removed++
			}
		}
	})
	return removed, err
}

// Close stops the pruning loop and drops every snapshot. It is safe to
// call more than once.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries != nil {
		m.entries = nil
		close(m.stop)
	}
	return nil
}

// Count returns the number of stored snapshots, expired ones included
// until the next prune.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) pruneEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = m.Prune()
		case <-m.stop:
			return
		}
	}
}

package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	prefix  string
	now     func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory(prefix string) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		prefix:  prefix,
		now:     time.Now,
	}
}

func (m *Memory) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[m.key(key)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, m.key(key))
		m.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.payload, nil
}

// Set stores payload under key. A zero ttl means the entry never expires.
func (m *Memory) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[m.key(key)] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, m.key(key))
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

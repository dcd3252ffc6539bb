package repository

import (
	"context"
	"sync"
	"time"
)

// minSweepInterval keeps very short TTLs from spinning the sweeper.
const minSweepInterval = time.Second

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is a process-local CacheRepository. A zero ttl keeps entries forever.
// With a positive ttl a background sweeper drops expired entries every ttl
// until Stop is called.
type MemoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	data      map[string]memoryEntry
	now       func() time.Time
	stopSweep chan struct{}
	stopOnce  sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	m := newMemoryCache(ttl, time.Now)
	if ttl > 0 {
		go m.sweepLoop(max(ttl, minSweepInterval))
	}
	return m
}

func newMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		ttl:       ttl,
		data:      make(map[string]memoryEntry),
		now:       now,
		stopSweep: make(chan struct{}),
	}
}

func (m *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stopSweep:
			return
		}
	}
}

// Sweep deletes every expired entry and reports how many were removed.
func (m *MemoryCache) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

// Stop ends the background sweeper. It is safe to call more than once.
func (m *MemoryCache) Stop() {
	m.stopOnce.Do(func() { close(m.stopSweep) })
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !entry.expired(m.now()) {
		return entry.value, true, nil
	}

	m.mu.Lock()
	// A concurrent Set may have refreshed the key since the read lock was dropped.
	if current, ok := m.data[key]; ok && current.expired(m.now()) {
		delete(m.data, key)
	}
	m.mu.Unlock()
	return "", false, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

package client

import (
	"sync"
	"time"
)

// CacheTTL bounds how long a cached read response may stand in for a live
// one.
const CacheTTL = 5 * time.Minute

type cacheEntry struct {
	payload    []byte
	receivedAt time.Time
}

// ResponseCache keeps the last successful payload per endpoint key.
// Concurrent population is last-writer-wins; there is no per-key locking.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (rc *ResponseCache) Put(key string, payload []byte) {
	rc.mu.Lock()
	rc.entries[key] = cacheEntry{payload: payload, receivedAt: rc.now()}
	rc.mu.Unlock()
}

// Get returns the cached payload for key if it is younger than CacheTTL.
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	rc.mu.RLock()
	entry, ok := rc.entries[key]
	rc.mu.RUnlock()

	if !ok || rc.now().Sub(entry.receivedAt) >= CacheTTL {
		return nil, false
	}
	return entry.payload, true
}

// Package cache stores rendered calculation results keyed by a hash of the
// normalized request.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Repository stores string values by key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key hashes the given parts into a cache key. Parts are separated so that
// ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...string) string {
	digest := xxhash.New()
	for _, part := range parts {
		_, _ = digest.WriteString(part)
		_, _ = digest.Write([]byte{0})
	}
	return "fincalc:" + strconv.FormatUint(digest.Sum64(), 16)
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process Repository with a fixed time to live.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryCache creates a MemoryCache. A ttl of zero keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		delete(m.data, key)
		return "", false
	}
	return entry.value, true
}

// Set stores value under key.
func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

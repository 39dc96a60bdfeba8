package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

// MemoryCache is an in-process Client used when Redis is not configured.
type MemoryCache struct {
	mu    sync.Mutex
	store map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	value      string
	expiration time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]cacheItem),
		now:   time.Now,
	}
}

// lookup returns a live item; the caller holds the mutex.
func (m *MemoryCache) lookup(key string) (cacheItem, bool) {
	item, ok := m.store[key]
	if !ok {
		return cacheItem{}, false
	}
	if m.now().After(item.expiration) {
		delete(m.store, key)
		return cacheItem{}, false
	}
	return item, true
}

func (m *MemoryCache) expiry(expiration time.Duration) time.Time {
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}
	return m.now().Add(expiration)
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return "", ErrMiss
	}
	return item.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = cacheItem{value: value, expiration: m.expiry(expiration)}
	return nil
}

func (m *MemoryCache) SetNX(_ context.Context, key string, value string, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.store[key] = cacheItem{value: value, expiration: m.expiry(expiration)}
	return true, nil
}

func (m *MemoryCache) DeleteIfEquals(_ context.Context, key string, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok || item.value != value {
		return false, nil
	}
	delete(m.store, key)
	return true, nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.store, key)
	}
	return nil
}

func (m *MemoryCache) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		m.store[key] = cacheItem{value: "1", expiration: m.expiry(window)}
		return 1, nil
	}

	count, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, err
	}
	count++
	item.value = strconv.FormatInt(count, 10)
	m.store[key] = item
	return count, nil
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

// Close drops every entry.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheItem)
	return nil
}

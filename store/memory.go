package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/lmsrec/core"
)

const memoryCleanupInterval = 10 * time.Second

// MemoryStore 是进程内的 Store，用于测试、演示和单实例部署。
// 支持按秒的 TTL；过期 key 读取时视为不存在，并由后台 goroutine 定期清理。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

type memoryEntry struct {
	value    []byte
	expireAt time.Time // 零值表示不过期
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ticker:  time.NewTicker(memoryCleanupInterval),
		done:    make(chan struct{}),
	}
	go m.cleanup()
	return m
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expireAt: expireAt(ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// BatchGet 只返回存在且未过期的 key。
func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if e, ok := m.entries[k]; ok && !e.expired(now) {
			out[k] = e.value
		}
	}
	return out, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp := expireAt(ttl)
	for k, v := range kvs {
		m.entries[k] = memoryEntry{value: v, expireAt: exp}
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close 停止后台清理，可重复调用。
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		m.ticker.Stop()
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.done:
			return
		case now := <-m.ticker.C:
			m.mu.Lock()
			for k, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

func expireAt(ttl []int) time.Time {
	if d := expiration(ttl); d > 0 {
		return time.Now().Add(d)
	}
	return time.Time{}
}

var _ core.Store = (*MemoryStore)(nil)

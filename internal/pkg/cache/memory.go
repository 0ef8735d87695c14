package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryItem struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache used when no Redis address is configured
// and by tests.
type Memory struct {
	mu          sync.Mutex
	items       map[string]memoryItem
	serviceName string
	now         func() time.Time
}

func NewMemory(serviceName string) *Memory {
	return &Memory{items: make(map[string]memoryItem), serviceName: serviceName, now: time.Now}
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{value: fmt.Sprint(value)}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return "", nil
	}
	if !item.expires.IsZero() && m.now().After(item.expires) {
		delete(m.items, key)
		return "", nil
	}
	return item.value, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}

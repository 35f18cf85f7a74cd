package kvstore

import (
	"context"
	"sync"
)

// Memory keeps every scope in process memory. Values do not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{scopes: map[string]map[string]string{}}
}

func (m *Memory) Get(_ context.Context, scope, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.scopes[scope][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.scopes[scope]
	if !ok {
		entries = map[string]string{}
		m.scopes[scope] = entries
	}
	entries[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.scopes[scope]
	if !ok {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// Package denylist tracks revoked token ids. Entries carry the remaining
// lifetime of the token they revoke, so a backend with TTL support never
// accumulates entries past their natural expiry.
package denylist

import (
	"context"
	"sync"
	"time"
)

type Denylist interface {
	// Add marks jti as revoked for at least ttl. Adding an already revoked
	// jti is not an error.
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Memory is a process-local Denylist. Revocations are lost on restart, so it
// is only suitable for tests and single-node development.
type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time)}
}

func (m *Memory) Add(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (m *Memory) Contains(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	deadline, ok := m.revoked[jti]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		m.mu.Lock()
		delete(m.revoked, jti)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

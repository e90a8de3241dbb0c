package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// MockDispatchLock implements domain.DispatchLock with an in-memory map of
// session to owning token
type MockDispatchLock struct {
	AcquireFunc func(ctx context.Context, sessionID string) (string, bool, error)
	ExtendFunc  func(ctx context.Context, sessionID, token string) (bool, error)
	ReleaseFunc func(ctx context.Context, sessionID, token string) error

	mu      sync.Mutex
	seq     int
	held    map[string]string
	extends map[string]int
}

// NewMockDispatchLock creates a new MockDispatchLock with default behaviors
func NewMockDispatchLock() *MockDispatchLock {
	return &MockDispatchLock{held: make(map[string]string), extends: make(map[string]int)}
}

func (m *MockDispatchLock) Acquire(ctx context.Context, sessionID string) (string, bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[sessionID]; ok {
		return "", false, nil
	}
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.held[sessionID] = token
	return token, true, nil
}

func (m *MockDispatchLock) Extend(ctx context.Context, sessionID, token string) (bool, error) {
	if m.ExtendFunc != nil {
		return m.ExtendFunc(ctx, sessionID, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[sessionID] != token {
		return false, nil
	}
	m.extends[sessionID]++
	return true, nil
}

func (m *MockDispatchLock) Release(ctx context.Context, sessionID, token string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, sessionID, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[sessionID] == token {
		delete(m.held, sessionID)
	}
	return nil
}

// Held reports whether sessionID currently holds the lock
func (m *MockDispatchLock) Held(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[sessionID]
	return ok
}

// Extends returns how many times the lock of sessionID was extended
func (m *MockDispatchLock) Extends(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extends[sessionID]
}

// Compile-time interface compliance verification
var _ domain.DispatchLock = (*MockDispatchLock)(nil)

package mocks

import (
	"context"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// MockSelectionRepository implements domain.SelectionRepository. Without
// overrides it keeps state in memory.
type MockSelectionRepository struct {
	LoadFunc   func(ctx context.Context, sessionID string) (*domain.SelectionState, error)
	SaveFunc   func(ctx context.Context, sessionID string, state *domain.SelectionState) error
	DeleteFunc func(ctx context.Context, sessionID string) error

	mu     sync.Mutex
	states map[string]domain.SelectionState
}

// NewMockSelectionRepository creates a new MockSelectionRepository with default behaviors
func NewMockSelectionRepository() *MockSelectionRepository {
	return &MockSelectionRepository{states: make(map[string]domain.SelectionState)}
}

func (m *MockSelectionRepository) Load(ctx context.Context, sessionID string) (*domain.SelectionState, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[sessionID]
	if !ok {
		return &domain.SelectionState{Displayed: []domain.Contact{}, Selected: domain.Selection{}}, nil
	}
	return &st, nil
}

func (m *MockSelectionRepository) Save(ctx context.Context, sessionID string, state *domain.SelectionState) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sessionID, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[sessionID] = *state
	return nil
}

func (m *MockSelectionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.SelectionRepository = (*MockSelectionRepository)(nil)

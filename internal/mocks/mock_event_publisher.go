package mocks

import (
	"context"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// PublishedEvent records one Publish call
type PublishedEvent struct {
	Key string
	Msg domain.EventEnvelope
}

// MockEventPublisher implements domain.EventPublisher interface for testing
type MockEventPublisher struct {
	PublishFunc func(ctx context.Context, key string, msg domain.EventEnvelope) error

	mu        sync.Mutex
	published []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher with default behaviors
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, key string, msg domain.EventEnvelope) error {
	m.mu.Lock()
	m.published = append(m.published, PublishedEvent{Key: key, Msg: msg})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, key, msg)
	}
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.published))
	copy(out, m.published)
	return out
}

// Compile-time interface compliance verification
var _ domain.EventPublisher = (*MockEventPublisher)(nil)

package mocks

import (
	"context"
	"sync"

	"github.com/rahulwaghole14/mandap/domain"
)

// SentMessage records one gateway call
type SentMessage struct {
	Phone   string
	Content domain.OutboundContent
}

// MockMessagingGateway implements domain.MessagingGateway interface for testing
type MockMessagingGateway struct {
	SendFunc func(ctx context.Context, phone string, content domain.OutboundContent) (string, error)

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockMessagingGateway creates a new MockMessagingGateway with default behaviors
func NewMockMessagingGateway() *MockMessagingGateway {
	return &MockMessagingGateway{}
}

// Send records the call and succeeds unless SendFunc says otherwise
func (m *MockMessagingGateway) Send(ctx context.Context, phone string, content domain.OutboundContent) (string, error) {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{Phone: phone, Content: content})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone, content)
	}
	return "", nil
}

// Sent returns a copy of the recorded calls in call order
func (m *MockMessagingGateway) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.MessagingGateway = (*MockMessagingGateway)(nil)

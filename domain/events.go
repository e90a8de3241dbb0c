package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	AdminLoginEvent        AuditEventType = "ADMIN_LOGIN"
	AdminLoginFailureEvent AuditEventType = "ADMIN_LOGIN_FAILED"
	AdminLogoutEvent       AuditEventType = "ADMIN_LOGOUT"
	SessionExpiredEvent    AuditEventType = "SESSION_EXPIRED"

	// Directory events
	CompanyUpdatedEvent    AuditEventType = "COMPANY_UPDATED"
	CompanyDeletedEvent    AuditEventType = "COMPANY_DELETED"
	CompanyRegisteredEvent AuditEventType = "COMPANY_REGISTERED"

	// Messaging events
	DispatchCompletedEvent AuditEventType = "DISPATCH_COMPLETED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	AdminID   uint                   `json:"admin_id"`
	Email     string                 `json:"email,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, adminID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		AdminID:   adminID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithSession copies the admin identity from a session
func (e *AuditEvent) WithSession(s *Session) *AuditEvent {
	if s != nil {
		e.AdminID = s.AdminID
		e.Email = s.Email
		e.SessionID = s.ID
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}

// DispatchCompletedType is the event type and routing key of a finished bulk send
const DispatchCompletedType = "dispatch.completed.v1"

// EventMeta is the header of every published event
type EventMeta struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Producer      string    `json:"producer,omitempty"`
	Time          time.Time `json:"time"`
	Type          string    `json:"type"`
}

// EventEnvelope wraps an event payload with its meta
type EventEnvelope struct {
	Meta EventMeta `json:"meta"`
	Data any       `json:"data"`
}

// DispatchCompleted is the payload of a dispatch.completed.v1 event
type DispatchCompleted struct {
	DispatchID string           `json:"dispatch_id"`
	SessionID  string           `json:"session_id"`
	AdminID    uint             `json:"admin_id"`
	Kind       string           `json:"kind"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Results    []DispatchResult `json:"results"`
}

// EventPublisher publishes envelopes under a routing key
type EventPublisher interface {
	Publish(ctx context.Context, key string, msg EventEnvelope) error
	Close() error
}

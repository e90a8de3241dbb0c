package services

import (
	"context"
	"testing"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/mocks"
)

// authDeps bundles the mocks behind an AuthServiceImpl
type authDeps struct {
	admins   *mocks.MockAdminRepository
	sessions *mocks.MockSessionRepository
	password *mocks.MockPasswordService
	tokens   *mocks.MockTokenService
	audit    *mocks.MockAuditLogger
}

// createAuthServiceForTest creates an AuthService with mock dependencies
func createAuthServiceForTest(t *testing.T) (*AuthServiceImpl, *authDeps) {
	t.Helper()
	deps := &authDeps{
		admins:   mocks.NewMockAdminRepository(),
		sessions: mocks.NewMockSessionRepository(),
		password: mocks.NewMockPasswordService(),
		tokens:   mocks.NewMockTokenService(),
		audit:    mocks.NewMockAuditLogger(),
	}
	svc := NewAuthService(deps.admins, deps.sessions, deps.password, deps.tokens, deps.audit, AuthConfig{
		UpstreamToken: "directory-token",
		SessionTTL:    time.Hour,
	})
	return svc, deps
}

// createValidAdmin creates an active admin whose password is "password123"
func createValidAdmin(t *testing.T) *domain.Admin {
	t.Helper()
	return &domain.Admin{
		ID:           7,
		Email:        "admin@example.com",
		PasswordHash: "hashed_password123",
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// createValidSession creates a live session for admin 1
func createValidSession(t *testing.T) *domain.Session {
	t.Helper()
	now := time.Now()
	return &domain.Session{
		ID:            "session_123",
		AdminID:       1,
		Email:         "admin@example.com",
		Role:          domain.RoleAdmin,
		UpstreamToken: "directory-token",
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Hour),
	}
}

// recordingRevoker counts revoked sessions
type recordingRevoker struct {
	revoked []string
}

func (r *recordingRevoker) Revoke(_ context.Context, s *domain.Session) error {
	r.revoked = append(r.revoked, s.ID)
	return nil
}

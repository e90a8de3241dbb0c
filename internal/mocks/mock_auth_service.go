package mocks

import (
	"context"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	AuthenticateFunc    func(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	LogoutFunc          func(ctx context.Context, sessionID string) error
	GetAdminProfileFunc func(ctx context.Context, adminID uint) (*domain.Admin, error)
	CreateAdminFunc     func(ctx context.Context, email, password, role string) (*domain.Admin, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Authenticate exchanges credentials for a session
func (m *MockAuthService) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	// Default behavior: successful login
	return &domain.AuthResult{
		Admin: &domain.Admin{
			ID:        1,
			Email:     creds.Email,
			Role:      "admin",
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		AccessToken: "mock_access_token",
		SessionID:   "session_123",
		ExpiresIn:   3600,
	}, nil
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// GetAdminProfile returns the admin behind a session
func (m *MockAuthService) GetAdminProfile(ctx context.Context, adminID uint) (*domain.Admin, error) {
	if m.GetAdminProfileFunc != nil {
		return m.GetAdminProfileFunc(ctx, adminID)
	}
	return &domain.Admin{
		ID:       adminID,
		Email:    "admin@example.com",
		Role:     "admin",
		IsActive: true,
	}, nil
}

// CreateAdmin creates an admin account
func (m *MockAuthService) CreateAdmin(ctx context.Context, email, password, role string) (*domain.Admin, error) {
	if m.CreateAdminFunc != nil {
		return m.CreateAdminFunc(ctx, email, password, role)
	}
	return &domain.Admin{ID: 1, Email: email, Role: role, IsActive: true}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)

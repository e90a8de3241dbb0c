package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rahulwaghole14/mandap/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	adminRepo     domain.AdminRepository
	sessionRepo   domain.SessionRepository
	passwordSvc   domain.PasswordService
	tokenSvc      domain.TokenService
	audit         domain.AuditLogger
	upstreamToken string
	sessionTTL    time.Duration
}

// AuthConfig holds the session settings of the auth service
type AuthConfig struct {
	// UpstreamToken is the directory API token handed to every session
	UpstreamToken string
	SessionTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo domain.AdminRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	audit domain.AuditLogger,
	cfg AuthConfig,
) *AuthServiceImpl {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	return &AuthServiceImpl{
		adminRepo:     adminRepo,
		sessionRepo:   sessionRepo,
		passwordSvc:   passwordSvc,
		tokenSvc:      tokenSvc,
		audit:         audit,
		upstreamToken: cfg.UpstreamToken,
		sessionTTL:    cfg.SessionTTL,
	}
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)

// Authenticate implements domain.Authenticator
func (s *AuthServiceImpl) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, s.loginFailed(ctx, email, domain.ErrInvalidCredentials)
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, s.loginFailed(ctx, email, domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !admin.IsActive {
		return nil, s.loginFailed(ctx, email, domain.ErrAdminInactive)
	}

	if !s.passwordSvc.Verify(admin.PasswordHash, creds.Password) {
		return nil, s.loginFailed(ctx, email, domain.ErrInvalidCredentials)
	}

	now := time.Now()
	session := &domain.Session{
		ID:            uuid.NewString(),
		AdminID:       admin.ID,
		Email:         admin.Email,
		Role:          admin.Role,
		UpstreamToken: s.upstreamToken,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(admin.ID, admin.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.AdminLoginEvent, admin.ID).WithSession(session))

	return &domain.AuthResult{
		Admin:       admin,
		AccessToken: accessToken,
		SessionID:   session.ID,
		ExpiresIn:   int64(s.sessionTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	event := domain.NewAuditEvent(domain.AdminLogoutEvent, 0)
	event.SessionID = sessionID
	s.logEvent(ctx, event)
	return nil
}

// GetAdminProfile implements domain.AuthService
func (s *AuthServiceImpl) GetAdminProfile(ctx context.Context, adminID uint) (*domain.Admin, error) {
	return s.adminRepo.FindByID(ctx, adminID)
}

// CreateAdmin implements domain.AuthService
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, email, password, role string) (*domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "a valid email is required")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password", "password must be at least 8 characters")
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError("role", fmt.Sprintf("role must be %s or %s", domain.RoleAdmin, domain.RoleOperator))
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.createAdmin(ctx, email, hashed, role)
}

// BootstrapAdmin creates an admin from an existing bcrypt hash when no admin
// account exists yet. It reports whether an account was created.
func (s *AuthServiceImpl) BootstrapAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	if email == "" || passwordHash == "" {
		return false, nil
	}
	n, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.createAdmin(ctx, strings.ToLower(strings.TrimSpace(email)), passwordHash, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthServiceImpl) createAdmin(ctx context.Context, email, hash, role string) (*domain.Admin, error) {
	admin := &domain.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAdminAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, email string, err error) error {
	s.logEvent(ctx, domain.NewAuditEvent(domain.AdminLoginFailureEvent, 0).WithEmail(email).WithError(err))
	return err
}

func (s *AuthServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		_ = s.audit.LogEvent(ctx, event)
	}
}

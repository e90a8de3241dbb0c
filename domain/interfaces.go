package domain

import "context"

// AdminRepository defines admin account data access operations
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id uint) (*Admin, error)
	Count(ctx context.Context) (int64, error)
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) error
}

// SelectionRepository keeps the contact screen state of each session
type SelectionRepository interface {
	Load(ctx context.Context, sessionID string) (*SelectionState, error)
	Save(ctx context.Context, sessionID string, state *SelectionState) error
	Delete(ctx context.Context, sessionID string) error
}

// DispatchLock allows one in-flight dispatch per session. Acquire hands out
// a token; Extend and Release only act while that token still owns the lock.
type DispatchLock interface {
	Acquire(ctx context.Context, sessionID string) (token string, ok bool, err error)
	Extend(ctx context.Context, sessionID, token string) (bool, error)
	Release(ctx context.Context, sessionID, token string) error
}

// Authenticator exchanges credentials for a session
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Authenticator
	Logout(ctx context.Context, sessionID string) error
	GetAdminProfile(ctx context.Context, adminID uint) (*Admin, error)
	CreateAdmin(ctx context.Context, email, password, role string) (*Admin, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(adminID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// DirectoryClient is the company-directory REST API. Every call carries the
// session's upstream token.
type DirectoryClient interface {
	ListCompanies(ctx context.Context, token string, filter CompanyFilter) ([]Company, error)
	ListTalukas(ctx context.Context, token string) ([]Taluka, error)
	ListServices(ctx context.Context, token string) ([]Service, error)
	UpdateCompany(ctx context.Context, token string, id ID, fields CompanyFields, serviceIDs []int64) error
	DeleteCompany(ctx context.Context, token string, id ID) error
	RegisterCompany(ctx context.Context, token string, fields CompanyFields, serviceIDs []int64) error
}

// MessagingGateway sends one content to one normalized phone and returns
// the gateway's message on success.
type MessagingGateway interface {
	Send(ctx context.Context, phone string, content OutboundContent) (string, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	AdminID   uint   `json:"admin_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

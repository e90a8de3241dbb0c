package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rahulwaghole14/mandap/internal/config"
)

// Endpoints are the fake upstreams a test config points at
type Endpoints struct {
	RedisAddr    string
	DirectoryURL string
	GatewayURL   string
}

// DirectoryToken is the upstream token handed to every test session
const DirectoryToken = "test-directory-token"

// NewTestConfig returns a validated config backed by in-memory SQLite and
// the given fake upstreams.
func NewTestConfig(t *testing.T, ep Endpoints) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Port:      "0",
		GinMode:   "test",
		LogLevel:  "error",
		LogFormat: "text",

		DBDriver: "sqlite",
		DSN:      ":memory:",

		RedisAddr: ep.RedisAddr,

		JWTSecret: "test-secret-key-for-e2e",
		JWTIssuer: "mandap-admin-test",
		AccessTTL: time.Hour,

		CasbinModelPath: ModelPath(t),

		DirectoryBaseURL:  ep.DirectoryURL + "/api/admin/",
		DirectoryToken:    DirectoryToken,
		DirectoryTimeout:  5 * time.Second,
		DirectoryPageSize: 5,

		GatewayProvider:   "messagesapi",
		GatewayBaseURL:    ep.GatewayURL,
		GatewayUserID:     "sender-1",
		GatewayDevice:     "device-1",
		GatewaySenderName: "Frontend User",
		GatewayTimeout:    5 * time.Second,

		DispatchConcurrency: 1,
		DispatchLockTTL:     time.Minute,

		EventsProducer: "mandap-admin-test",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

// ModelPath locates config/rbac_model.conf at the repository root
func ModelPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate test config source")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "config", "rbac_model.conf")
}

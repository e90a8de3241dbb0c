package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
database:
  driver: sqlite
  dsn: "file::memory:"
redis:
  addr: "localhost:6379"
jwt:
  secret: "s3cret"
casbin:
  model_path: "rbac_model.conf"
gateway:
  user_id: "u1"
  device: "phone"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DirectoryPageSize != 5 {
		t.Errorf("expected page size 5, got %d", cfg.DirectoryPageSize)
	}
	if cfg.DispatchConcurrency != 1 {
		t.Errorf("expected sequential dispatch by default, got %d", cfg.DispatchConcurrency)
	}
	if cfg.GatewaySenderName != "Frontend User" {
		t.Errorf("unexpected sender name %q", cfg.GatewaySenderName)
	}
	if cfg.AccessTTL != 12*time.Hour {
		t.Errorf("unexpected access TTL %v", cfg.AccessTTL)
	}
	if !strings.HasSuffix(cfg.DirectoryBaseURL, "/mandap-api/api/admin/") {
		t.Errorf("unexpected directory base %q", cfg.DirectoryBaseURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MANDAP_JWT_SECRET", "from-env")
	t.Setenv("MANDAP_DISPATCH_CONCURRENCY", "4")
	t.Setenv("MANDAP_DIRECTORY_TOKEN", "tok")

	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("expected env secret, got %q", cfg.JWTSecret)
	}
	if cfg.DispatchConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.DispatchConcurrency)
	}
	if cfg.DirectoryToken != "tok" {
		t.Errorf("expected directory token from env, got %q", cfg.DirectoryToken)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	body := minimalYAML + "dispatch:\n  lock_ttl: \"soon\"\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "jwt.secret"},
		{name: "bad driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "twilio without credentials", mutate: func(c *Config) { c.GatewayProvider = "twilio" }, wantErr: "twilio credentials"},
		{name: "events without url", mutate: func(c *Config) { c.EventsEnabled = true; c.AMQPURL = "" }, wantErr: "amqp_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				JWTSecret:       "x",
				DSN:             "dsn",
				DBDriver:        "postgres",
				RedisAddr:       "localhost:6379",
				CasbinModelPath: "model.conf",
				GatewayProvider: "messagesapi",
				GatewayUserID:   "u",
				GatewayDevice:   "d",
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type BootstrapAdminConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

type AuthConfig struct {
	BootstrapAdmin BootstrapAdminConfig `yaml:"bootstrap_admin"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type DirectoryConfig struct {
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	Timeout  string `yaml:"timeout"`
	PageSize int    `yaml:"page_size"`
}

type GatewayConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	UserID     string `yaml:"user_id"`
	Device     string `yaml:"device"`
	SenderName string `yaml:"sender_name"`
	Timeout    string `yaml:"timeout"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type DispatchConfig struct {
	Concurrency int    `yaml:"concurrency"`
	LockTTL     string `yaml:"lock_ttl"`
}

type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
	Producer string `yaml:"producer"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Casbin    CasbinConfig    `yaml:"casbin"`
	Directory DirectoryConfig `yaml:"directory"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Events    EventsConfig    `yaml:"events"`
}

type Config struct {
	Port    string
	GinMode string

	LogLevel  string
	LogFormat string

	DBDriver string
	DSN      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	AccessTTL time.Duration

	BootstrapEmail        string
	BootstrapPasswordHash string

	CasbinModelPath string

	DirectoryBaseURL  string
	DirectoryToken    string
	DirectoryTimeout  time.Duration
	DirectoryPageSize int

	GatewayProvider   string
	GatewayBaseURL    string
	GatewayUserID     string
	GatewayDevice     string
	GatewaySenderName string
	GatewayTimeout    time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	DispatchConcurrency int
	DispatchLockTTL     time.Duration

	EventsEnabled  bool
	AMQPURL        string
	EventsExchange string
	EventsProducer string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads the YAML file at path, loads .env when present and applies
// MANDAP_* environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	// .env is optional
	_ = godotenv.Load()

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyDefaults(configFile)

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	dirTimeout, err := time.ParseDuration(configFile.Directory.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid directory timeout: %w", err)
	}
	gwTimeout, err := time.ParseDuration(configFile.Gateway.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}
	lockTTL, err := time.ParseDuration(configFile.Dispatch.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid dispatch lock TTL: %w", err)
	}

	cfg := &Config{
		Port:                  env("MANDAP_PORT", strconv.Itoa(configFile.App.Port)),
		GinMode:               configFile.App.GinMode,
		LogLevel:              env("MANDAP_LOG_LEVEL", configFile.Log.Level),
		LogFormat:             configFile.Log.Format,
		DBDriver:              env("MANDAP_DB_DRIVER", configFile.Database.Driver),
		DSN:                   env("MANDAP_DB_DSN", configFile.Database.DSN),
		RedisAddr:             env("MANDAP_REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:         env("MANDAP_REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:               envInt("MANDAP_REDIS_DB", configFile.Redis.DB),
		JWTSecret:             env("MANDAP_JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:             configFile.JWT.Issuer,
		AccessTTL:             accTTL,
		BootstrapEmail:        env("MANDAP_BOOTSTRAP_EMAIL", configFile.Auth.BootstrapAdmin.Email),
		BootstrapPasswordHash: env("MANDAP_BOOTSTRAP_PASSWORD_HASH", configFile.Auth.BootstrapAdmin.PasswordHash),
		CasbinModelPath:       configFile.Casbin.ModelPath,
		DirectoryBaseURL:      env("MANDAP_DIRECTORY_BASE_URL", configFile.Directory.BaseURL),
		DirectoryToken:        env("MANDAP_DIRECTORY_TOKEN", configFile.Directory.Token),
		DirectoryTimeout:      dirTimeout,
		DirectoryPageSize:     configFile.Directory.PageSize,
		GatewayProvider:       env("MANDAP_GATEWAY_PROVIDER", configFile.Gateway.Provider),
		GatewayBaseURL:        env("MANDAP_GATEWAY_BASE_URL", configFile.Gateway.BaseURL),
		GatewayUserID:         env("MANDAP_GATEWAY_USER_ID", configFile.Gateway.UserID),
		GatewayDevice:         env("MANDAP_GATEWAY_DEVICE", configFile.Gateway.Device),
		GatewaySenderName:     configFile.Gateway.SenderName,
		GatewayTimeout:        gwTimeout,
		TwilioSID:             env("MANDAP_TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:           env("MANDAP_TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:            env("MANDAP_TWILIO_FROM", configFile.Twilio.FromNumber),
		DispatchConcurrency:   envInt("MANDAP_DISPATCH_CONCURRENCY", configFile.Dispatch.Concurrency),
		DispatchLockTTL:       lockTTL,
		EventsEnabled:         env("MANDAP_EVENTS_ENABLED", strconv.FormatBool(configFile.Events.Enabled)) == "true",
		AMQPURL:               env("MANDAP_AMQP_URL", configFile.Events.AMQPURL),
		EventsExchange:        configFile.Events.Exchange,
		EventsProducer:        configFile.Events.Producer,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(c *ConfigFile) {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "12h"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "mandap-admin"
	}
	if c.Directory.BaseURL == "" {
		c.Directory.BaseURL = "https://www.rslsolution.com/mandap-api/api/admin/"
	}
	if c.Directory.Timeout == "" {
		c.Directory.Timeout = "15s"
	}
	if c.Directory.PageSize <= 0 {
		c.Directory.PageSize = 5
	}
	if c.Gateway.Provider == "" {
		c.Gateway.Provider = "messagesapi"
	}
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = "https://messagesapi.co.in"
	}
	if c.Gateway.SenderName == "" {
		c.Gateway.SenderName = "Frontend User"
	}
	if c.Gateway.Timeout == "" {
		c.Gateway.Timeout = "30s"
	}
	if c.Dispatch.Concurrency <= 0 {
		c.Dispatch.Concurrency = 1
	}
	if c.Dispatch.LockTTL == "" {
		c.Dispatch.LockTTL = "10m"
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "mandap"
	}
	if c.Events.Producer == "" {
		c.Events.Producer = "mandap-admin"
	}
}

// Validate checks the keys the service cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DBDriver))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	if c.CasbinModelPath == "" {
		errs = append(errs, errors.New("casbin.model_path is required"))
	}
	switch c.GatewayProvider {
	case "messagesapi":
		if c.GatewayUserID == "" || c.GatewayDevice == "" {
			errs = append(errs, errors.New("gateway.user_id and gateway.device are required"))
		}
	case "twilio":
		if c.TwilioSID == "" || c.TwilioToken == "" || c.TwilioFrom == "" {
			errs = append(errs, errors.New("twilio credentials are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported gateway provider %q", c.GatewayProvider))
	}
	if c.EventsEnabled && c.AMQPURL == "" {
		errs = append(errs, errors.New("events.amqp_url is required when events are enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/config"
	httpx "github.com/rahulwaghole14/mandap/internal/http"
	"github.com/rahulwaghole14/mandap/internal/http/handlers"
	"github.com/rahulwaghole14/mandap/internal/http/middleware"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/auth"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/database"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/directory"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/events"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/notifications"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/repositories"
	"github.com/rahulwaghole14/mandap/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	AdminRepo     domain.AdminRepository
	SessionRepo   domain.SessionRepository
	SelectionRepo domain.SelectionRepository
	DispatchLock  domain.DispatchLock

	// Adapters
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Audit       domain.AuditLogger
	Publisher   domain.EventPublisher
	Directory   domain.DirectoryClient
	Gateway     domain.MessagingGateway

	// Services
	AuthSvc      *services.AuthServiceImpl
	Gate         *services.SessionGate
	PolicySvc    *services.PolicyServiceImpl
	DirectorySvc *services.DirectoryService
	ContactSvc   *services.ContactService
	DispatchSvc  *services.DispatchService
}

// NewContainer opens the database and Redis and wires every dependency
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		_ = database.Close(db)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	c, err := Assemble(cfg, logger, db, rdb.Client)
	if err != nil {
		_ = database.Close(db)
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

// Assemble wires the container over already opened stores
func Assemble(cfg *config.Config, logger *slog.Logger, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger, DB: db, RedisClient: rdb}

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.initRepositories()
	if err := c.initAdapters(); err != nil {
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initRepositories() {
	c.AdminRepo = repositories.NewAdminRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
	c.SelectionRepo = repositories.NewSelectionRepository(c.RedisClient, c.Config.AccessTTL)
	c.DispatchLock = repositories.NewDispatchLock(c.RedisClient, c.Config.DispatchLockTTL)
}

func (c *Container) initAdapters() error {
	cfg := c.Config
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	c.Audit = events.NewAuditLogger(c.Logger)
	c.Directory = directory.NewHTTP(cfg.DirectoryBaseURL, cfg.DirectoryTimeout, c.Logger)

	gw, err := newGateway(cfg, c.Logger)
	if err != nil {
		return err
	}
	c.Gateway = gw

	if cfg.EventsEnabled {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange, c.Logger)
		if err != nil {
			return fmt.Errorf("event publisher: %w", err)
		}
		c.Publisher = pub
	} else {
		c.Publisher = events.NewLogPublisher(c.Logger)
	}
	return nil
}

func newGateway(cfg *config.Config, logger *slog.Logger) (domain.MessagingGateway, error) {
	switch cfg.GatewayProvider {
	case "messagesapi":
		return notifications.NewMessagesAPIGateway(notifications.MessagesAPIConfig{
			BaseURL:    cfg.GatewayBaseURL,
			UserID:     cfg.GatewayUserID,
			Device:     cfg.GatewayDevice,
			SenderName: cfg.GatewaySenderName,
			Timeout:    cfg.GatewayTimeout,
		}, logger), nil
	case "twilio":
		return notifications.NewTwilioWhatsAppGateway(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom), nil
	default:
		return nil, fmt.Errorf("unsupported gateway provider %q", cfg.GatewayProvider)
	}
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthSvc = services.NewAuthService(c.AdminRepo, c.SessionRepo, c.PasswordSvc, c.TokenSvc, c.Audit, services.AuthConfig{
		UpstreamToken: cfg.DirectoryToken,
		SessionTTL:    cfg.AccessTTL,
	})
	c.Gate = services.NewSessionGate(c.TokenSvc, c.SessionRepo, c.Audit, c.Logger)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
	c.DirectorySvc = services.NewDirectoryService(c.Directory, c.Gate, c.Audit, cfg.DirectoryPageSize, c.Logger)
	c.ContactSvc = services.NewContactService(c.Directory, c.SelectionRepo, c.Gate)
	c.DispatchSvc = services.NewDispatchService(c.Gateway, c.DispatchLock, c.Publisher, c.Audit, services.DispatchConfig{
		Concurrency: cfg.DispatchConcurrency,
		Producer:    cfg.EventsProducer,
	}, c.Logger)
}

// Bootstrap seeds default policies and the first admin account
func (c *Container) Bootstrap(ctx context.Context) error {
	seeded, err := c.Casbin.SeedDefaults()
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if seeded {
		c.Logger.InfoContext(ctx, "casbin: seeded default policies")
	}

	created, err := c.AuthSvc.BootstrapAdmin(ctx, c.Config.BootstrapEmail, c.Config.BootstrapPasswordHash)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		c.Logger.InfoContext(ctx, "created bootstrap admin", slog.String("email", c.Config.BootstrapEmail))
	}
	return nil
}

// Router builds the gin engine over the container's services
func (c *Container) Router() *gin.Engine {
	h := httpx.Handlers{
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, c.ContactSvc, c.Logger),
		Directory: handlers.NewDirectoryHandlers(c.DirectorySvc),
		Contacts:  handlers.NewContactHandlers(c.ContactSvc, c.DispatchSvc),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc),
	}
	return httpx.BuildRouter(h, middleware.NewAuthMW(c.Gate), middleware.NewCasbinMW(c.PolicySvc, c.Logger), c.Logger)
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, database.Close(c.DB))
	}
	return errors.Join(errs...)
}

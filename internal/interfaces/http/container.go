package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/application/notification"
	reportUsecases "github.com/servis-automat/servis/internal/application/report/usecases"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/infrastructure/auth"
	"github.com/servis-automat/servis/internal/infrastructure/config"
	"github.com/servis-automat/servis/internal/infrastructure/email"
	"github.com/servis-automat/servis/internal/infrastructure/messaging"
	"github.com/servis-automat/servis/internal/infrastructure/permission"
	"github.com/servis-automat/servis/internal/infrastructure/qrlabel"
	"github.com/servis-automat/servis/internal/infrastructure/ratelimit"
	"github.com/servis-automat/servis/internal/infrastructure/scheduler"
	"github.com/servis-automat/servis/internal/infrastructure/storage"
	"github.com/servis-automat/servis/internal/interfaces/http/middleware"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/services/markdown"
)

const (
	blobUploadTimeout = 30 * time.Second
	redisPingTimeout  = 2 * time.Second
	labelSize         = 320
)

// mailer is satisfied by both the SMTP and the log-only email services.
type mailer interface {
	Send(ctx context.Context, to []string, subject, plainBody, htmlBody string) error
}

// Container holds all infrastructure components, repositories, use cases and
// handlers, and wires them together. Shutdown releases what it started.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	loginLimiter   ratelimit.RateLimiter

	// Infrastructure services
	jwtSvc     *auth.JWTService
	hasher     *auth.BcryptPasswordHasher
	enforcer   *permission.Enforcer
	blobs      *storage.LocalBlobStore
	labels     *qrlabel.Generator
	renderer   markdown.Renderer
	mailer     mailer
	dispatcher *events.InMemoryEventDispatcher
	kafka      *messaging.KafkaEventWriter

	reportScheduler *scheduler.WeeklyReportScheduler
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, auth, policy, storage, mail
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Repositories and use cases
	c.initRepositories()
	c.initUseCases()

	// Section 3: Notifications - email and Kafka subscribers
	if err := c.initNotifications(); err != nil {
		return nil, err
	}

	// Section 4: Handlers and middlewares
	c.initHandlers()
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(c.cfg.Auth.BcryptCost)

	enforcer, err := permission.NewEnforcer(c.log)
	if err != nil {
		return fmt.Errorf("failed to load access policy: %w", err)
	}
	c.enforcer = enforcer

	blobs, err := storage.NewLocalBlobStore(c.cfg.Storage.Root, c.cfg.Storage.PublicPath, c.cfg.Storage.MaxFileBytes)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment storage: %w", err)
	}
	c.blobs = blobs

	c.labels = qrlabel.NewGenerator(c.cfg.Server.PublicURL, labelSize)
	c.renderer = markdown.NewRenderer()
	c.initMailer()
	c.initRateLimiter()

	c.dispatcher = events.NewInMemoryEventDispatcher(c.cfg.Notification.BufferSize, c.log)
	return nil
}

func (c *Container) initMailer() {
	if !c.cfg.Email.Enabled {
		c.log.Infow("email disabled, notifications will only be logged")
		c.mailer = email.NewLogEmailService(c.log)
		return
	}
	c.mailer = email.NewSMTPEmailService(email.SMTPConfig{
		Host:        c.cfg.Email.SMTPHost,
		Port:        c.cfg.Email.SMTPPort,
		Username:    c.cfg.Email.SMTPUser,
		Password:    c.cfg.Email.SMTPPassword,
		FromAddress: c.cfg.Email.FromAddress,
		FromName:    c.cfg.Email.FromName,
	})
}

// initRateLimiter prefers Redis so limits hold across instances and falls
// back to process memory when Redis is not configured or not reachable.
func (c *Container) initRateLimiter() {
	if c.cfg.Redis.Host == "" {
		c.loginLimiter = ratelimit.NewMemoryRateLimiter()
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Warnw("redis unavailable, using in-memory rate limiter",
			"addr", c.cfg.Redis.GetAddr(),
			"error", err,
		)
		_ = client.Close()
		c.loginLimiter = ratelimit.NewMemoryRateLimiter()
		return
	}

	c.redis = client
	c.loginLimiter = ratelimit.NewRedisRateLimiter(client)
}

func (c *Container) initNotifications() error {
	handlers := []events.EventHandler{
		notification.NewTicketEmailHandler(c.repos.userRepo, c.mailer, c.renderer, c.cfg.Server.PublicURL, c.log),
	}

	if c.cfg.Kafka.Enabled {
		c.kafka = messaging.NewKafkaEventWriter(c.cfg.Kafka.Brokers, c.cfg.Kafka.Topic, notification.TicketEventTypes, c.log)
		handlers = append(handlers, c.kafka)
	}

	if err := notification.Register(c.dispatcher, handlers...); err != nil {
		return err
	}
	audit := events.NewFuncHandler(events.AllEvents, func(_ context.Context, e events.DomainEvent) error {
		c.log.Debugw("ticket event dispatched", "event_type", e.EventName(), "ticket_id", e.Key(), "at", e.At())
		return nil
	})
	if err := c.dispatcher.Subscribe(events.AllEvents, audit); err != nil {
		return err
	}
	return c.dispatcher.Start()
}

// Engine returns the gin engine with routes registered by SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// StartBackground starts the weekly report schedule when it is enabled.
func (c *Container) StartBackground(ctx context.Context) error {
	if !c.cfg.Report.ScheduleEnabled {
		return nil
	}
	weekday, err := c.cfg.Report.ParseWeekday()
	if err != nil {
		return err
	}
	c.reportScheduler = scheduler.NewWeeklyReportScheduler(
		weeklyReportSender{uc: c.ucs.sendWeeklyReportUC},
		weekday,
		c.cfg.Report.Hour,
		c.log,
	)
	c.reportScheduler.Start(ctx)
	return nil
}

// weeklyReportSender runs the send use case as the system identity.
type weeklyReportSender struct {
	uc *reportUsecases.SendWeeklyReportUseCase
}

func (s weeklyReportSender) SendWeeklyReport(ctx context.Context) error {
	_, err := s.uc.Execute(ctx, authorization.SystemIdentity())
	return err
}

// Shutdown drains queued notifications and closes outbound connections.
func (c *Container) Shutdown() {
	if c.reportScheduler != nil {
		c.reportScheduler.Stop()
	}
	if err := c.dispatcher.Stop(); err != nil {
		c.log.Warnw("failed to stop event dispatcher", "error", err)
	}
	if c.kafka != nil {
		if err := c.kafka.Close(); err != nil {
			c.log.Warnw("failed to close kafka writer", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

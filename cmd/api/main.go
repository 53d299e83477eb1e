package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/gestion-api/internal/application/service"
	"github.com/sangkips/gestion-api/internal/config"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/sangkips/gestion-api/internal/infrastructure/backend"
	"github.com/sangkips/gestion-api/internal/infrastructure/database"
	"github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/internal/infrastructure/storage"
	"github.com/sangkips/gestion-api/internal/presentation/http/handler"
	"github.com/sangkips/gestion-api/internal/presentation/http/middleware"
	"github.com/sangkips/gestion-api/internal/presentation/http/routes"
	"github.com/sangkips/gestion-api/pkg/email"
	"github.com/sangkips/gestion-api/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	setupLogger(cfg)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	health := handler.NewHealthHandler(cfg.App.Name).
		AddCheck("database", handler.DatabaseCheck(db), false)

	// Draft sessions live in redis when configured so they survive restarts
	var drafts domainRepo.DraftRepository
	if cfg.Redis.URL != "" {
		rdb, err := database.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		drafts = repository.NewRedisDraftRepository(rdb, cfg.Redis.DraftTTL)
		health.AddCheck("redis", handler.RedisCheck(rdb), true)
	} else {
		log.Warn().Msg("REDIS_URL not set, order drafts are kept in memory")
		drafts = repository.NewMemoryDraftRepository(cfg.Redis.DraftTTL)
	}

	// Initialize repositories
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	documentRepo := repository.NewReceiptDocumentRepository(db)

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout)
	health.AddCheck("backend", backendClient.Ping, true)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
	if !emailService.Enabled() {
		log.Warn().Msg("SMTP not configured, receipt email is disabled")
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	var presenter service.DocumentPresenter = storage.NopPresenter{}
	if cfg.Document.SaveCopies {
		fp, err := storage.NewFilePresenter(cfg.Document.StoragePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Document.StoragePath).Msg("failed to prepare document storage")
		}
		presenter = fp
	}

	loc := cfg.App.Location()

	// Initialize services
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer.Type, cfg.Printer.CharWidth, loc)
	draftService := service.NewDraftService(drafts, backendClient, backendClient, backendClient)
	receiptService := service.NewReceiptService(service.ReceiptServiceDeps{
		Receipts:  backendClient,
		Companies: backendClient,
		Documents: documentRepo,
		Generator: service.NewDocumentGenerator(loc),
		Presenter: presenter,
		Mailer:    emailService,
		Printer:   printerService,
		FallbackCompany: &entity.CompanyInfo{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			Phone:   cfg.Company.Phone,
			Email:   cfg.Company.Email,
		},
		CountryCode: cfg.WhatsApp.DefaultCountryCode,
	})

	// Initialize handlers
	handlers := &routes.Handlers{
		Draft:   handler.NewDraftHandler(draftService),
		Receipt: handler.NewReceiptHandler(receiptService),
		Printer: handler.NewPrinterHandler(printerService),
		Health:  health,
	}

	rateLimiter := middleware.NewTenantRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.App.Env).Msgf("starting %s on :%s", cfg.App.Name, port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger uses pretty console output in development and JSON otherwise
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.App.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.Logger.With().Str("service", cfg.App.Name).Logger()

	// log.Ctx falls back to this when a context carries no request logger
	zerolog.DefaultContextLogger = &log.Logger
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("failed to purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged expired idempotency keys")
			}
		}
	}
}

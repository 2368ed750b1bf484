package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/config"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/handlers"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/logger"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository/memory"
	redis_repo "github.com/SimpnicServerTeam/scs-mail-server/internal/repository/redis"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository/sqlite"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/router"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/server"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/templates"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokenRepo, closeTokens := newResetTokenRepository(ctx, cfg)
	defer closeTokens()
	accountRepo, closeAccounts := newAccountRepository(cfg)
	defer closeAccounts()

	mailer, err := service.NewSMTPEmailService(&cfg.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SMTP configuration")
	}
	catalogue, err := templates.New(templates.Options{
		AppName:     cfg.AppName,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load email templates")
	}

	registry := service.NewResetTokenService(tokenRepo, cfg.Security.PasswordResetTokenExpiry)
	notifier := service.NewNotificationService(mailer, catalogue, service.NotificationOptions{
		FrontendURL:   cfg.FrontendURL,
		AdminEmail:    cfg.AdminEmail,
		ResetTokenTTL: registry.TTL(),
	})
	passwordResets := service.NewPasswordResetService(
		registry,
		notifier,
		accountRepo,
		service.NewBcryptHasher(cfg.Security.BcryptCost),
	)

	sweeperStopped := service.NewSweeper(registry, cfg.Security.ResetTokenSweepInterval).Run(ctx)

	app := server.New()
	router.SetupEmailRoutes(app, handlers.NewEmailHandler(notifier), cfg.APIKey)
	router.SetupPasswordResetRoutes(app, handlers.NewPasswordResetHandler(passwordResets), cfg.APIKey)
	router.SetupAdminRoutes(app, handlers.NewAdminHandler(registry), service.NewJWTService(cfg.JWTSecret, 0))

	go func() {
		log.Info().Str("port", cfg.Port).Str("tokenStore", cfg.TokenStore).Strs("templates", catalogue.Names()).Msg("Server starting")
		if err := app.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-sweeperStopped

	log.Info().Msg("Server stopped gracefully.")
}

func newResetTokenRepository(ctx context.Context, cfg *config.Config) (repository.ResetTokenRepository, func()) {
	if cfg.TokenStore != config.TokenStoreRedis {
		return memory.NewMemoryResetTokenRepository(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisSettings.Address,
		Password: cfg.RedisSettings.Password,
		DB:       cfg.RedisSettings.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("address", cfg.RedisSettings.Address).Msg("Failed to connect to redis")
	}
	return redis_repo.NewRedisResetTokenRepository(client), func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}

func newAccountRepository(cfg *config.Config) (repository.AccountRepository, func()) {
	if cfg.DatabaseDSN == "" {
		log.Warn().Msg("DATABASE_DSN not set, account passwords are kept in memory")
		return memory.NewMemoryAccountRepository(), func() {}
	}

	db, err := sqlite.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open account database")
	}
	return sqlite.NewSQLiteAccountRepository(db), func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close account database")
		}
	}
}

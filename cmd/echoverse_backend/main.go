package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/adapters/database/pgsql"
	"github.com/echoverse/echoverse_backend/internal/adapters/mail"
	"github.com/echoverse/echoverse_backend/internal/adapters/memory"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/core/services"
	"github.com/echoverse/echoverse_backend/internal/handlers"
	"github.com/echoverse/echoverse_backend/internal/middleware"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
	"github.com/echoverse/echoverse_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sessionSweepInterval is how often expired sessions are purged from the store.
const sessionSweepInterval = time.Hour

// @title Echoverse Backend API
// @version 1.0
// @description Authentication and identity service for the Echoverse platform.

// @host localhost:8080
// @BasePath /api
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionRepo := sessionRepository(cfg, dbPool)
	container := buildServiceContainer(cfg, dbPool, sessionRepo, logger)

	// Background purge of expired sessions so the store does not grow
	// unbounded. Expired sessions are already rejected at read time.
	go sweepSessions(context.Background(), sessionRepo, logger)

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// corsConfig allows the frontend origin with credentials, since the session
// rides on a cookie.
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return corsCfg
}

// sessionRepository picks the session store backend per configuration.
func sessionRepository(cfg *config.Config, dbPool *pgxpool.Pool) portsrepo.SessionRepository {
	if cfg.SessionStore == "memory" {
		return memory.NewSessionStore()
	}
	return pgsql.NewSessionRepository(dbPool)
}

func buildServiceContainer(cfg *config.Config, dbPool *pgxpool.Pool, sessionRepo portsrepo.SessionRepository, logger *slog.Logger) *portssvc.ServiceContainer {
	userRepo := pgsql.NewUserRepository(dbPool)
	accountRepo := pgsql.NewAccountRepository(dbPool)

	var mailer portssvc.MailerSvc
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg)
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	return services.NewServiceContainer(cfg, userRepo, accountRepo, sessionRepo, mailer, logger)
}

// sweepSessions periodically deletes expired sessions.
func sweepSessions(ctx context.Context, sessions portsrepo.SessionRepository, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Error("Session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				logger.Info("Session sweep completed", slog.Int64("deleted", deleted))
			}
		}
	}
}

// runMigrations applies all pending "up" migrations before the server starts.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx/v5/stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/footyclub/backend/internal/auth"
	"github.com/footyclub/backend/internal/config"
	"github.com/footyclub/backend/internal/football"
	"github.com/footyclub/backend/internal/health"
	"github.com/footyclub/backend/internal/logger"
	"github.com/footyclub/backend/internal/metrics"
	appmw "github.com/footyclub/backend/internal/middleware"
	"github.com/footyclub/backend/internal/reminder"
	"github.com/footyclub/backend/internal/repository"
	"github.com/footyclub/backend/internal/sanitizer"
	"github.com/footyclub/backend/internal/session"
)

// Version is set at build time
var Version = "dev"

// loginRateLimit bounds sign-in attempts per client IP
const (
	loginRateLimit  = 10
	loginRateWindow = 15 * time.Minute
)

func main() {
	cfg := config.Load()

	if cfg.Session.Secret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}

	appLogger := logger.New(logger.DefaultConfig())
	slog.SetDefault(appLogger)

	// Database handles: pgx pool for the user repository, sqlx over pgx
	// stdlib for the reminder repository.
	dbPool, err := setupPgxPool(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	sqlxDB, err := sqlx.Connect("pgx", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open sqlx handle: %v", err)
	}
	defer sqlxDB.Close()
	sqlxDB.SetMaxOpenConns(25)
	sqlxDB.SetMaxIdleConns(5)
	sqlxDB.SetConnMaxLifetime(5 * time.Minute)

	// Redis is optional; without it the football proxy just skips caching.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	prometheus.MustRegister(metrics.NewDBStatsCollector(dbPool, sqlxDB.DB))

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	reminderRepo := repository.NewReminderRepository(sqlxDB)

	// Session cookie codec
	cookieCodec, err := session.NewCodec(session.CodecConfig{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Server.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to create session codec: %v", err)
	}

	// Services and handlers
	authService := auth.NewService(userRepo, appLogger)
	authHandler := auth.NewHandler(authService, cookieCodec)

	reminderService := reminder.NewService(reminderRepo, sanitizer.NewTextSanitizer(), appLogger)
	reminderHandler := reminder.NewHandler(reminderService, appLogger)

	footballClient := football.NewClient(football.ClientConfig{
		BaseURL:  cfg.Football.BaseURL,
		APIToken: cfg.Football.APIToken,
		Timeout:  cfg.Football.Timeout,
		Logger:   appLogger,
	})
	footballCache := football.NewCache(redisClient, cfg.Football.CacheTTL, appLogger)
	footballHandler := football.NewHandler(footballClient, footballCache, appLogger)

	// Middleware
	sessionMW := appmw.NewSessionMiddleware(cookieCodec)
	loggingMW := appmw.NewLoggingMiddleware(appLogger)
	loginLimiter := appmw.NewRateLimiter(loginRateLimit, loginRateWindow)

	healthHandler := health.NewHandler(health.Config{
		DBPool:      dbPool,
		RedisClient: redisClient,
		Version:     Version,
	})

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(loggingMW.Handler)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessionMW.Resolve)

		auth.RegisterRoutes(r, authHandler, loginLimiter.Handler)
		reminder.RegisterRoutes(r, reminderHandler, sessionMW.Require)
		football.RegisterRoutes(r, footballHandler)
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("starting server", "addr", addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	healthHandler.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("server exited")
}

// setupPgxPool creates and configures the pgx connection pool
func setupPgxPool(cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

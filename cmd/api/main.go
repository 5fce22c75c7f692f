package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/handler"
	"github.com/dafibh/spendwise/spendwise-backend/internal/messaging/amqp"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/postgres"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/sqlite"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/dafibh/spendwise/spendwise-backend/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// repositories is the storage backend selected by DATABASE_DRIVER
type repositories struct {
	accounts domain.AccountRepository
	expenses domain.ExpenseRepository
	budgets  domain.BudgetRepository
	close    func()
}

// @title Spendwise API
// @version 1.0
// @description Personal expense ledger with monthly budgets
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token from /login, sent as "Bearer <token>". The authToken cookie is accepted too.
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	repos := openRepositories(cfg)
	defer repos.close()

	secret := []byte(cfg.JWTSecret)

	// Initialize services
	tokenService, err := service.NewTokenService(secret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token service")
	}
	authService := service.NewAuthService(repos.accounts, tokenService)
	expenseService := service.NewExpenseService(repos.expenses, repos.accounts)
	budgetService := service.NewBudgetService(repos.budgets, repos.expenses, repos.accounts)

	// Change events go to connected browsers, and to RabbitMQ when configured
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := amqp.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to RabbitMQ, event outbox disabled")
		} else {
			defer amqpPublisher.Close()
			publishers = append(publishers, amqpPublisher)
			log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Publishing events to RabbitMQ")
		}
	}
	expenseService.SetEventPublisher(publishers)
	budgetService.SetEventPublisher(publishers)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(secret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	authLimiter := middleware.NewRateLimiterWithConfig(cfg.AuthRateLimit, middleware.DefaultBurstSize)
	defer authLimiter.Stop()

	wsValidator, err := websocket.NewTokenValidator(secret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.CookieSecure),
		Expense:   handler.NewExpenseHandler(expenseService),
		Budget:    handler.NewBudgetHandler(budgetService),
		WebSocket: handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes and the browser client
	handler.RegisterRoutes(e, authMiddleware, authLimiter, handlers)
	assets, err := web.Static()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static assets")
	}
	handler.RegisterStatic(e, assets)
	handler.RegisterSwagger(e)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.DatabaseDriver).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepositories connects the configured store. A bad Postgres config or an
// unusable SQLite file is fatal. An unreachable Postgres server is only logged:
// the process keeps serving and data requests fail until the database returns.
func openRepositories(cfg *config.Config) repositories {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(context.Background(), cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open SQLite store")
		}
		return repositories{
			accounts: store.Accounts(),
			expenses: store.Expenses(),
			budgets:  store.Budgets(),
			close: func() {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("Failed to close SQLite store")
				}
			},
		}
	default:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create database pool")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to ping database, continuing without a connection")
		} else {
			log.Info().Msg("Connected to database")
			if err := postgres.RunMigrations(pool); err != nil {
				log.Error().Err(err).Msg("Failed to run migrations")
			}
		}

		return repositories{
			accounts: postgres.NewAccountRepository(pool),
			expenses: postgres.NewExpenseRepository(pool),
			budgets:  postgres.NewBudgetRepository(pool),
			close:    pool.Close,
		}
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}

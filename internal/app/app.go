package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"review-service/internal/app/middleware"
	"review-service/internal/config"
	"review-service/internal/db"
	"review-service/internal/handler"
	"review-service/internal/logger"
	"review-service/internal/repository"
	"review-service/internal/service/assignment"
	"review-service/internal/service/pullrequest"
	"review-service/internal/service/stats"
	"review-service/internal/service/team"
	"review-service/internal/service/user"
)

// App is the main application structure
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	server *http.Server
}

// NewApp creates and configures the application
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewLogger("review-service", cfg.Logger.Level, cfg.Logger.Encoding, cfg.Logger.Development)

	dsn := cfg.Database.DSN()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse DB config", zap.Error(err))
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Error("Failed to ping database", zap.Error(err))
		return nil, err
	}

	log.Info("Successfully connected to database")

	if err := db.RunMigrations(dsn); err != nil {
		log.Error("Failed to apply migrations", zap.Error(err))
		return nil, err
	}
	log.Info("Migrations applied")

	// Transactor: services run multi-step read-decide-write sequences
	// through it, repositories resolve pool-or-tx from the context.
	ctxManager := db.NewContextManager(pool)

	teamRepo := repository.NewTeamRepository(ctxManager)
	userRepo := repository.NewUserRepository(ctxManager)
	prRepo := repository.NewPRRepository(ctxManager)

	assignStrategy := assignment.NewStrategy()

	teamService := team.NewService(teamRepo, userRepo, ctxManager)
	userService := user.NewService(userRepo, prRepo, ctxManager, assignStrategy)
	prService := pullrequest.NewService(prRepo, userRepo, ctxManager, assignStrategy)
	statsService := stats.NewService(prRepo)

	validate := validator.New()

	teamHandler := handler.NewTeamHandler(teamService, validate, log)
	userHandler := handler.NewUserHandler(userService, validate, log)
	prHandler := handler.NewPRHandler(prService, validate, log)
	statsHandler := handler.NewStatsHandler(statsService, log)
	healthHandler := handler.NewHealthHandler()
	docsHandler := handler.NewDocsHandler("openapi.yml")

	mux := http.NewServeMux()

	// Team routes
	mux.HandleFunc("POST /team/add", teamHandler.AddTeam)
	mux.HandleFunc("GET /team/get", teamHandler.GetTeam)

	// User routes
	mux.HandleFunc("POST /users/setIsActive", userHandler.SetIsActive)
	mux.HandleFunc("GET /users/getReview", userHandler.GetReview)
	mux.HandleFunc("POST /users/bulkDeactivate", userHandler.BulkDeactivate)

	// PR routes
	mux.HandleFunc("POST /pullRequest/create", prHandler.CreatePR)
	mux.HandleFunc("POST /pullRequest/merge", prHandler.MergePR)
	mux.HandleFunc("POST /pullRequest/reassign", prHandler.ReassignReviewer)

	// Stats routes
	mux.HandleFunc("GET /statistics", statsHandler.GetStatistics)

	// Health route
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Documentation routes
	mux.HandleFunc("GET /docs", docsHandler.ServeSwaggerUI)
	mux.HandleFunc("GET /openapi.yml", docsHandler.ServeOpenAPI)

	// Middleware chain: Recovery -> RequestID -> Logging
	var h http.Handler = mux
	h = middleware.Logging(log)(h)
	h = middleware.RequestID()(h)
	h = middleware.Recovery(log)(h)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		pool:   pool,
		server: server,
	}, nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	a.pool.Close()
	a.logger.Info("Database connection pool closed")

	a.logger.Info("Server exited gracefully")
	return nil
}

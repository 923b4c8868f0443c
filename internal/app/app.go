package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nordvik/studioplan-backend/internal/adapter/postgres"
	"github.com/nordvik/studioplan-backend/internal/adapter/postgres/item"
	"github.com/nordvik/studioplan-backend/internal/adapter/postgres/movelog"
	"github.com/nordvik/studioplan-backend/internal/auth"
	"github.com/nordvik/studioplan-backend/internal/config"
	"github.com/nordvik/studioplan-backend/internal/service/schedule"
	"github.com/nordvik/studioplan-backend/internal/transport/middleware"
	"github.com/nordvik/studioplan-backend/internal/transport/rest"
	"github.com/nordvik/studioplan-backend/internal/transport/ws"
)

// Run is the application entry point. It loads configuration, connects to the
// database, wires the schedule service with its transports and runs the HTTP
// server until SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	itemRepo := item.New(pool)
	moveRepo := movelog.New(pool)
	txManager := postgres.NewTxManager(pool)

	scheduleSvc := schedule.NewService(logger, itemRepo, moveRepo, txManager, cfg.Schedule)
	defer scheduleSvc.Close()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := buildHandler(logger, cfg, pool, scheduleSvc, jwtManager, rateLimiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// jwtValidator adapts the JWT manager to the middleware's validator interface.
type jwtValidator struct {
	jwt *auth.JWTManager
}

func (v jwtValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	return v.jwt.ValidateAccessToken(token)
}

func buildHandler(
	logger *slog.Logger,
	cfg *config.Config,
	pool *pgxpool.Pool,
	scheduleSvc *schedule.Service,
	jwtManager *auth.JWTManager,
	rateLimiter *middleware.RateLimiter,
) http.Handler {
	scheduleHandler := rest.NewScheduleHandler(scheduleSvc, logger)
	conflictWS := ws.NewConflictHandler(scheduleSvc, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/schedule", scheduleHandler.Window)
	api.HandleFunc("POST /api/v1/schedule/{id}/reschedule", scheduleHandler.Reschedule)
	api.HandleFunc("GET /api/v1/schedule/conflicts", scheduleHandler.Conflicts)
	api.HandleFunc("GET /api/v1/schedule/conflicts/ws", conflictWS.Serve)
	api.HandleFunc("GET /api/v1/schedule/{id}/moves", scheduleHandler.History)
	api.HandleFunc("GET /api/v1/schedule/export.ics", scheduleHandler.Export)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", middleware.RequireWorkspace(api))
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RequestsPerMin),
		middleware.Auth(jwtValidator{jwt: jwtManager}),
	)
	return chain(mux)
}

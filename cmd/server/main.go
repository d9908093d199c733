package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewdesk/crewdesk/internal/application/scheduler"
	"github.com/crewdesk/crewdesk/internal/application/task"
	"github.com/crewdesk/crewdesk/internal/config"
	crewhttp "github.com/crewdesk/crewdesk/internal/http"
	"github.com/crewdesk/crewdesk/internal/http/handler"
	"github.com/crewdesk/crewdesk/internal/infrastructure/persistence/postgres"
	"github.com/crewdesk/crewdesk/internal/notification"
	"github.com/crewdesk/crewdesk/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Observability first so everything below logs through it.
	// Endpoint and headers come from the standard OTEL_* env vars.
	lp, logger, err := observability.InitLogger(ctx, cfg.Observability.ServiceName, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer shutdownProvider(lp.Shutdown, "logger provider")
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, cfg.Observability.ServiceName, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer shutdownProvider(tp.Shutdown, "tracer provider")

	mp, err := observability.InitMeterProvider(ctx, cfg.Observability.ServiceName, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer shutdownProvider(mp.Shutdown, "meter provider")

	slog.InfoContext(ctx, "starting crewdesk service")

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	slog.InfoContext(ctx, "storage initialized", "dsn", maskPassword(cfg.Database.DSN))

	taskService := task.NewService(store)
	notifier := notification.NewEmitter(store)
	sched := scheduler.New(store, notifier,
		scheduler.WithOperationTimeout(cfg.Scheduler.OperationTimeout))

	// Rebuild the timer registry from storage, then start firing.
	if err := sched.ReconcileOnStartup(ctx); err != nil {
		return fmt.Errorf("failed to reconcile scheduler: %w", err)
	}
	sched.Run()
	defer sched.Shutdown()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           crewhttp.NewRouter(handler.NewServer(taskService, sched)),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		// Fresh context: the main one is already cancelled, but the
		// server still gets a window to drain connections.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
		}
	}()

	slog.InfoContext(ctx, "HTTP server listening", "address", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	slog.InfoContext(context.Background(), "crewdesk service stopped")

	return nil
}

// shutdownProvider shuts down an observability provider with a timeout
// so an unreachable collector cannot hang process exit.
func shutdownProvider(shutdown func(context.Context) error, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown "+name, "error", err)
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/exam-gen/internal/ai"
	"github.com/p-n-ai/exam-gen/internal/catalog"
	"github.com/p-n-ai/exam-gen/internal/exam"
	"github.com/p-n-ai/exam-gen/internal/examlog"
	"github.com/p-n-ai/exam-gen/internal/platform/cache"
	"github.com/p-n-ai/exam-gen/internal/platform/config"
	"github.com/p-n-ai/exam-gen/internal/platform/database"
	"github.com/p-n-ai/exam-gen/internal/server"
	"github.com/p-n-ai/exam-gen/internal/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	deps, err := setup(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      deps.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // generation can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

type dependencies struct {
	handler http.Handler
	closers []func()
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// setup builds every collaborator from cfg. Database and cache are optional.
func setup(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}
	var checks []server.HealthChecker

	var genLog examlog.Logger = examlog.NopLogger{}
	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, database.Options{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			deps.close()
			return nil, err
		}
		deps.closers = append(deps.closers, db.Close)
		checks = append(checks, db)

		pg := examlog.NewPostgresLogger(db.Pool)
		if cfg.Database.Migrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				deps.close()
				return nil, err
			}
		}
		genLog = pg
		slog.Info("exam generation log enabled", "backend", "postgres")
	}

	var recorder usage.Recorder = usage.NewMemoryRecorder()
	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			deps.close()
			return nil, err
		}
		deps.closers = append(deps.closers, func() { c.Close() })
		checks = append(checks, c)
		recorder = usage.NewRedisRecorder(c.Client)
		slog.Info("usage counters enabled", "backend", "redis")
	}

	topics, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		deps.close()
		return nil, err
	}

	httpClient := http.DefaultClient
	if cfg.AI.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second}
	}
	provider, err := ai.NewGoogleProvider(cfg.AI.Google.APIKey,
		ai.WithGoogleModel(cfg.AI.Google.Model),
		ai.WithGoogleBaseURL(cfg.AI.Google.BaseURL),
		ai.WithGoogleHTTPClient(httpClient),
	)
	if err != nil {
		deps.close()
		return nil, err
	}
	if cfg.HasAPIKey() {
		checks = append(checks, server.NewCheck("ai", provider.HealthCheck))
	} else {
		slog.Warn("GEMINI_API_KEY is not set; exam generation requests will fail until it is configured")
	}

	svc := exam.NewService(exam.ServiceConfig{
		Provider: provider,
		APIKey:   cfg.AI.Google.APIKey,
		Model:    cfg.AI.Google.Model,
		Log:      genLog,
		Usage:    recorder,
	})

	deps.handler = server.New(server.Config{
		Generator:     svc,
		Topics:        topics,
		Checks:        checks,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
	})
	return deps, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	httpadapter "svw.info/knucklebones/internal/adapters/http"
	"svw.info/knucklebones/internal/adapters/ws"
	"svw.info/knucklebones/internal/engine"
	"svw.info/knucklebones/internal/generator"
	"svw.info/knucklebones/internal/hint"
	"svw.info/knucklebones/internal/infrastructure/storage"
	"svw.info/knucklebones/internal/platform/config"
	"svw.info/knucklebones/internal/platform/otel"
	"svw.info/knucklebones/internal/ports"
	"svw.info/knucklebones/internal/usecase"
	"svw.info/knucklebones/internal/validator"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		config.Exitf("%v", err)
	}
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "knucklebones-web", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		config.Exitf("otel setup: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("otel shutdown", "err", err)
		}
	}()

	// Choose storage: fs by default, sqlite or none via flag.
	var st ports.Storage
	switch strings.ToLower(strings.TrimSpace(cfg.Storage)) {
	case "none", "":
	case "sqlite":
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			config.Exitf("open sqlite: %v", err)
		}
		defer db.Close()
		st = db
	default:
		_ = os.MkdirAll(cfg.PersistPath, 0o755)
		st = storage.NewFS(cfg.PersistPath)
	}

	// Wire providers → use cases → adapters
	e := engine.New(nil)
	uc := usecase.NewService(e, e, generator.NewRandomGenerator(), validator.New(), hint.NewAdvisor(e), st)
	uc.Logger = logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, httpadapter.RequestLogger(logger), middleware.Recoverer)
	httpadapter.New(uc).Register(r)
	r.Handle("/ws", ws.New(uc, cfg.WSPingInterval, logger))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

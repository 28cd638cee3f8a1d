package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"gider/internal/api"
	"gider/internal/backend"
	"gider/internal/cache"
	"gider/internal/cli"
	"gider/internal/dashboard"
	apphttp "gider/internal/http"
	"gider/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenTokenStore(logger, cfg.TokenDBPath)
	defer store.Close()

	factory := backend.NewFactory(logger, store)
	result, err := factory.Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	svc := dashboard.New(result.Backend, store, logger.WithComponent(log.ComponentDashboard), dashboard.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Timeout:   cfg.RequestTimeout,
	})

	cacheManager := cache.NewManager(logger.Logger)
	cacheManager.Register(svc.Cache())
	cacheManager.StartCleanup(cfg.CleanupEvery)
	defer cacheManager.Stop()

	// Login endpoints are only meaningful against the remote API.
	var auth apphttp.Authenticator
	if client, ok := result.Backend.(*api.Client); ok {
		auth = client
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, auth, store, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting gider server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

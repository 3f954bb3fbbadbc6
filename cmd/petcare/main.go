package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/config"
	"github.com/kovacsd/petcare/internal/scheduler"
	"github.com/kovacsd/petcare/internal/server/handlers"
	"github.com/kovacsd/petcare/internal/server/router"
	"github.com/kovacsd/petcare/pkg/clients/auth"
	"github.com/kovacsd/petcare/pkg/clients/backend"
	"github.com/kovacsd/petcare/pkg/clients/registry"
	"github.com/kovacsd/petcare/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	creds := buildCredentialProvider(cfg, baseLogger)
	apiClient := backend.NewClient(cfg.Backend.BaseURL, creds, cfg.Backend.Timeout)

	var registryClient registry.Client
	if cfg.Registry.BaseURL != "" {
		registryClient, err = registry.New(cfg.Registry.Schema, cfg.Registry.BaseURL, creds,
			cfg.Backend.Timeout, baseLogger.Named("clients.registry"))
		if err != nil {
			baseLogger.Fatal("failed to init registry client", zap.Error(err))
		}
		baseLogger.Info("registry import enabled", zap.String("schema", cfg.Registry.Schema))
	} else {
		baseLogger.Warn("registry host missing, horse import disabled")
	}

	petHandler := handlers.NewPetHandler(apiClient, registryClient, cfg.Owner, baseLogger.Named("handlers.pets"))
	engine := router.New(petHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, apiClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildCredentialProvider(cfg *config.Config, baseLogger *zap.Logger) auth.CredentialProvider {
	if cfg.Auth.TokenURL != "" {
		baseLogger.Info("using client-credentials auth", zap.String("tokenUrl", cfg.Auth.TokenURL))
		return auth.NewClientCredentialsProvider(auth.Config{
			TokenURL:     cfg.Auth.TokenURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			Audience:     cfg.Auth.Audience,
		})
	}
	if cfg.Auth.StaticToken != "" {
		baseLogger.Info("using static bearer token")
		return auth.StaticProvider{Token: cfg.Auth.StaticToken}
	}

	baseLogger.Warn("no credentials configured, requests go out unauthenticated")
	return nil
}

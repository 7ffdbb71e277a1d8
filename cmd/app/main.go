// Command app runs the CampusQuest HTTP API.
//
// @title CampusQuest API
// @version 1.0
// @description Campus quest, guild and leaderboard service.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/CampusQuest_Go/internal/bootstrap"
	"github.com/osse101/CampusQuest_Go/internal/config"
	"github.com/osse101/CampusQuest_Go/internal/handler"
	"github.com/osse101/CampusQuest_Go/internal/server"
	"github.com/osse101/CampusQuest_Go/internal/sse"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logCloser, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("CampusQuest exited with error", "error", err)
		_ = logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.InitializeStore(ctx, cfg)
	if err != nil {
		return err
	}

	appCache, redisCache, err := bootstrap.InitializeCache(ctx, cfg)
	if err != nil {
		store.Close()
		return err
	}

	cat, err := bootstrap.LoadCatalog(cfg)
	if err != nil {
		store.Close()
		return err
	}

	evidenceService, err := bootstrap.InitializeEvidence(ctx, cfg)
	if err != nil {
		store.Close()
		return err
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}

	services, err := bootstrap.InitializeServices(bootstrap.ServiceDependencies{
		Store:     store,
		Cache:     appCache,
		Catalog:   cat,
		Publisher: publisher,
		Evidence:  evidenceService,
		Config:    cfg,
	})
	if err != nil {
		store.Close()
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	kafkaSink, err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:     eventBus,
		StatsService: services.Stats,
		Hub:          hub,
		Config:       cfg,
	})
	if err != nil {
		hub.Stop()
		store.Close()
		return err
	}

	readiness := map[string]handler.Pinger{"store": store}
	if redisCache != nil {
		readiness["cache"] = redisCache
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, services, hub, readiness)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Hub:                hub,
		KafkaSink:          kafkaSink,
		ResilientPublisher: publisher,
		RedisCache:         redisCache,
		Store:              store,
	})

	return err
}

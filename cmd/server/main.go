package main

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

	"galaxy-server/internal/auth"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/panel"
	"galaxy-server/internal/scene"
	"galaxy-server/internal/server"
	serverHandlers "galaxy-server/internal/server/handlers"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/logger"
	"galaxy-server/internal/shared/redis"
)

const panelTitle = "Galaxy Generator"

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	cfg := config.GlobalConfig

	log := slog.With("component", "main")
	log.Info("Starting galaxy server",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, os.DirFS(cfg.Database.MigrationsPath)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	var cache galaxy.Cache
	if redisClient != nil {
		cache = galaxy.NewRedisCache(redisClient.Client)
	} else {
		cache = galaxy.NewMemoryCache(64)
	}

	galaxyService := galaxy.NewService(
		galaxy.NewRepository(db),
		cache,
		cfg.Galaxy,
		slog.Default(),
	)

	specs, err := galaxy.LoadPresetFile(cfg.Galaxy.PresetsFile)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	if _, err := galaxyService.SeedPresets(ctx, specs); err != nil {
		return fmt.Errorf("failed to seed presets: %w", err)
	}

	assets := scene.DefaultAssets()
	serverHandlers.MissingAssets(cfg.Galaxy.AssetsDir, assets)

	host := scene.NewHost(assets, slog.Default())
	galaxyPanel := panel.New(panelTitle, galaxyService.DefaultParameters(), slog.Default())
	galaxyPanel.OnFinishChange(func(ctx context.Context, p galaxy.Parameters) error {
		_, err := host.Regenerate(ctx, galaxyService, p)
		return err
	})

	if _, err := host.Regenerate(ctx, galaxyService, galaxyPanel.Parameters()); err != nil {
		return fmt.Errorf("failed to generate initial galaxy: %w", err)
	}

	oauthConfig := auth.InitOAuth()
	auth.StartStateCleanup(ctx)

	routes := server.NewRoutes(db, redisClient, galaxyService, galaxyPanel, host, oauthConfig, cfg.Galaxy.AssetsDir)
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit)
	cors := middleware.NewCORS()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(rateLimiter.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "url", cfg.Server.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

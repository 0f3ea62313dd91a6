package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amanah-profile-site/internal/api"
	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/service"
	"github.com/amanah-profile-site/internal/storage"
	"github.com/amanah-profile-site/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Options{})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Str("storage", cfg.Storage.Driver).Msg("Starting Amanah profile site...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Image storage
	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image storage")
	}

	// Static site profile used by the pages and the chat prompt
	profile, err := config.LoadSiteProfile(cfg.SiteProfilePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SiteProfilePath).Msg("Failed to load site profile")
	}

	completer := chat.NewOpenAICompleter(cfg.Chat)
	if cfg.Chat.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is not set, the chat assistant will answer with its fallback message")
	}

	// Initialize services
	services := service.NewServices(service.Deps{
		Repos:     repos,
		Store:     store,
		Completer: completer,
		Profile:   profile,
	}, cfg, log)

	// Start storage cleanup processor
	go services.Cleanup.StartProcessor(context.Background())
	log.Info().Msg("Storage cleanup processor started")

	// Initialize router
	router := api.NewRouter(services, profile, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop cleanup processor
	services.Cleanup.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/blog-content-api/internal/api"
	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/service"
	"github.com/blog-content-api/internal/storage"
	"github.com/blog-content-api/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	store, err := storage.NewS3Store(context.Background(), &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob store")
	}

	readCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	repos := repository.New(db)
	services := service.NewServices(repos, store, readCache, cfg, log)

	router := api.NewRouter(services, cfg, log)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine so shutdown signals can be handled
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SimpnicServerTeam/scs-credstore/internal/config"
	"github.com/SimpnicServerTeam/scs-credstore/internal/credstore"
	"github.com/SimpnicServerTeam/scs-credstore/internal/handlers"
	"github.com/SimpnicServerTeam/scs-credstore/internal/logger"
	"github.com/SimpnicServerTeam/scs-credstore/internal/repository"
	redis_repo "github.com/SimpnicServerTeam/scs-credstore/internal/repository/redis"
	sqlite_repo "github.com/SimpnicServerTeam/scs-credstore/internal/repository/sqlite"
	"github.com/SimpnicServerTeam/scs-credstore/internal/router"
	"github.com/SimpnicServerTeam/scs-credstore/internal/server"
	"github.com/SimpnicServerTeam/scs-credstore/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)

	hashFunc, err := cfg.HashFunc()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid hash configuration")
	}
	store := credstore.New(credstore.WithHash(hashFunc))

	var credRepo repository.CredentialRepository
	switch cfg.StorageDriver {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisSettings.Address,
			Password: cfg.RedisSettings.Password,
			DB:       cfg.RedisSettings.DB,
		})
		defer redisClient.Close()
		credRepo = redis_repo.NewRedisCredentialRepository(redisClient)
	default:
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open sqlite database")
		}
		defer db.Close()
		credRepo, err = sqlite_repo.NewSQLiteCredentialRepository(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize sqlite repository")
		}
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(store, credRepo, tokenService)

	if err := authService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load persisted credentials")
	}

	app := server.New()

	router.SetupAuthRoutes(app, handlers.NewAuthHandler(authService))
	router.SetupUserRoutes(app, handlers.NewUserHandler(authService), cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := app.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")

	if err := app.Shutdown(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phonemart/marketplace-api/internal/api"
	"github.com/phonemart/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/phonemart/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/phonemart/marketplace-api/internal/infrastructure/db/redis"
	"github.com/phonemart/marketplace-api/internal/infrastructure/queue"
	"github.com/phonemart/marketplace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Marketplace API
// @version      1.0
// @description  Used-phone marketplace: listings, cart, checkout and moderation.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// Missing .env is fine in containers; real env vars take precedence.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "marketplace-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewAuditDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, dispatcher, api.Options{
		JWTSecret:  cfg.JWTSecret,
		AdminEmail: cfg.AdminEmail,
		TokenTTL:   24 * time.Hour,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewListingRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewTransactionRepository(db).EnsureIndexes(ctx)
}

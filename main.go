// main.go
package main

import (
	"context"
	"log"

	"resort-booking/cmd"
	"resort-booking/internal/data/repository"
	"resort-booking/internal/usecase"
	"resort-booking/internal/wire"
	"resort-booking/pkg/database"
	"resort-booking/pkg/metrics"
	"resort-booking/pkg/middleware"
	"resort-booking/pkg/mq"
	"resort-booking/pkg/obs"
	"resort-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, config.App.Name, config.Tracing)
	if err != nil {
		logger.Fatal("Failed to init tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	if config.Metrics.Enabled {
		metrics.Register()
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	deps := wire.Deps{
		Repo:   repository.NewRepository(db, logger),
		Tx:     repository.NewTransactor(db, logger),
		Events: usecase.NewNopPublisher(),
		Ping:   db.Ping,
	}

	if config.AMQP.URL != "" {
		publisher, err := mq.NewPublisher(config.AMQP.URL, config.AMQP.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		deps.Events = publisher
		logger.Info("Publishing booking events", zap.String("exchange", config.AMQP.Exchange))
	}

	if config.Redis.Addr != "" {
		rdb := database.NewRedisClient(config.Redis)
		if err := database.PingRedis(ctx, rdb); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		deps.Idempotency = middleware.NewRedisIdempotencyStore(rdb)
		logger.Info("Idempotency keys enabled", zap.Duration("ttl", config.Redis.IdempotencyTTL))
	}

	app := wire.Wiring(deps, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

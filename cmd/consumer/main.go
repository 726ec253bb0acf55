package main

import (
	"context"
	"os/signal"
	"syscall"

	"go-payday/internal/app"
	"go-payday/internal/messaging/kafka/consumer"
	"go-payday/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := app.LoadConfig()

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB failed", zap.Error(err))
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	registry := app.NewRegistry(gormDB, sqlDB, rdb, logger)

	payrunConsumer := consumer.NewPayrunConsumer(
		[]string{cfg.KafkaBroker},
		cfg.ConsumerGroupID,
		registry.PayrunService,
		logger,
	)
	defer payrunConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := payrunConsumer.Start(ctx); err != nil {
		logger.Fatal("payrun consumer failed", zap.Error(err))
	}
}

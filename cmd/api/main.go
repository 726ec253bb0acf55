package main

import (
	"go-payday/internal/app"
	"go-payday/internal/bootstrap"
	"go-payday/internal/shared/apperror"
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

	apperror.Init()

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
	router := app.NewRouter(registry, rdb, logger)
	audit := bootstrap.NewZapAuditLogger(logger)

	if err := bootstrap.StartHTTPServer(router, cfg.Port, audit, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

package app

import (
	"net/http"

	"go-payday/internal/middleware"
	"go-payday/internal/obligation"
	"go-payday/internal/payrecord"
	"go-payday/internal/payrun"
	"go-payday/internal/ratetable"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func NewRouter(reg *Registry, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(logger))
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		ratetable.RegisterRoutes(api, reg.RateTableHandler)
		obligation.RegisterRoutes(api, reg.ObligationHandler)
		payrecord.RegisterRoutes(api, reg.PayRecordHandler)
		payrun.RegisterRoutes(api, reg.PayrunHandler, rdb)
	}

	return router
}

package payrun

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	runs := r.Group("/payrolls")
	runs.Use(middleware.AuthMiddleware())
	runs.Use(middleware.Idempotency(rdb))
	{
		runs.POST("/runs", handler.Run)
	}
}

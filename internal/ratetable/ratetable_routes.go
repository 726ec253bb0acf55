package ratetable

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	tables := r.Group("/rate-tables")
	tables.Use(middleware.AuthMiddleware())
	{
		tables.POST("", handler.Create)
		tables.GET("/current", handler.GetCurrent)
		tables.GET("/:id", handler.GetById)
	}
}

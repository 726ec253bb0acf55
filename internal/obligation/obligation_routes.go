package obligation

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	obligations := r.Group("/obligations")
	obligations.Use(middleware.AuthMiddleware())
	{
		obligations.POST("", handler.Create)
		obligations.GET("", handler.GetAll)
		obligations.GET("/:id", handler.GetById)
		obligations.PATCH("/:id/approve", handler.Approve)
		obligations.PATCH("/:id/reject", handler.Reject)
		obligations.PATCH("/:id/settle", handler.SettleManually)
	}
}

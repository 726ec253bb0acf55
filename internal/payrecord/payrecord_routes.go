package payrecord

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	records := r.Group("/pay-records")
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("", handler.GetAll)
		records.GET("/:id", handler.GetById)
		records.PATCH("/:id/approve", handler.Approve)
		records.PATCH("/:id/reject", handler.Reject)
		records.PATCH("/:id/pay", handler.MarkAsPaid)
		records.PATCH("/:id/cancel", handler.Cancel)
	}
}

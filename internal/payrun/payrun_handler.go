package payrun

import (
	"encoding/json"
	"net/http"
	"time"

	"go-payday/internal/shared/apperror"
	"go-payday/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyResultTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) Run(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	var req RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.Run(c.Request.Context(), companyID, actorID, req)

	// Release the idempotency lock whatever the outcome; cache only success
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" && h.rdb != nil {
		h.rdb.Del(c.Request.Context(), lockKey)
	}

	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if cacheKey := c.GetString("idempotency_cache_key"); cacheKey != "" && h.rdb != nil {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL)
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

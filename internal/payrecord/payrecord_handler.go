package payrecord

import (
	"context"
	"net/http"
	"strconv"

	"go-payday/internal/shared/apperror"
	"go-payday/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	filter := QueryFilter{
		EmployeeID: c.Query("employee_id"),
		Status:     c.Query("status"),
		Page:       1,
		PerPage:    20,
	}
	if year := c.Query("period_year"); year != "" {
		filter.PeriodYear, _ = strconv.Atoi(year)
	}
	if month := c.Query("period_month"); month != "" {
		filter.PeriodMonth, _ = strconv.Atoi(month)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 && perPage <= 100 {
		filter.PerPage = perPage
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), companyID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PerPage)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	targetID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.patchStatus(c, h.service.Approve, StatusApproved)
}

func (h *Handler) Reject(c *gin.Context) {
	h.patchStatus(c, h.service.Reject, StatusRejected)
}

func (h *Handler) MarkAsPaid(c *gin.Context) {
	h.patchStatus(c, h.service.MarkAsPaid, StatusPaid)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.patchStatus(c, h.service.Cancel, StatusCancelled)
}

func (h *Handler) patchStatus(
	c *gin.Context,
	op func(ctx context.Context, companyID, actorID, id string) error,
	resulting string,
) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	if err := op(c.Request.Context(), companyID, actorID, targetID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": resulting}, nil)
}

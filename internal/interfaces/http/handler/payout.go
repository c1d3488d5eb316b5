package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	payoutapp "github.com/tradelink/backend/internal/application/payout"
	settlementapp "github.com/tradelink/backend/internal/application/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
)

// PayoutHandler exposes seller payout ledger endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *payoutapp.PayoutService
	coordinator   *settlementapp.Coordinator
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutService *payoutapp.PayoutService, coordinator *settlementapp.Coordinator) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		coordinator:   coordinator,
	}
}

// ListPayoutsRequest is the query surface for listing payouts
type ListPayoutsRequest struct {
	dto.ListRequest
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
	Status    string `form:"status"`
	Method    string `form:"method" binding:"omitempty,oneof=stripe manual"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (r *ListPayoutsRequest) toFilter() (shared.Filter, error) {
	filter := toListFilter(r.ListRequest)
	if r.CompanyID != "" {
		filter.Filters["company_id"] = r.CompanyID
	}
	if r.Status != "" {
		filter.Filters["status"] = r.Status
	}
	if r.Method != "" {
		filter.Filters["method"] = r.Method
	}
	if r.StartDate != "" {
		t, err := time.Parse(time.RFC3339, r.StartDate)
		if err != nil {
			return filter, err
		}
		filter.Filters["start_date"] = t
	}
	if r.EndDate != "" {
		t, err := time.Parse(time.RFC3339, r.EndDate)
		if err != nil {
			return filter, err
		}
		filter.Filters["end_date"] = t
	}
	return filter, nil
}

// CreatePayout godoc
// @Summary Create a payout from a paid order
// @Description Opens a pending ledger entry for the seller's share of a paid order. Repeat calls for the same order return the existing entry.
// @Tags payouts
// @Accept json
// @Produce json
// @Param request body payoutapp.CreatePayoutRequest true "Order to pay out"
// @Success 201 {object} APIResponse[payoutapp.CreatePayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payouts [post]
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	var req payoutapp.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.payoutService.CreateFromOrder(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.AlreadyExisted {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// SettleOrder godoc
// @Summary Settle a paid order
// @Description Creates the payout ledger entry and dispatches the transfer through the seller's preferred channel
// @Tags payouts
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} APIResponse[payoutapp.CreatePayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payouts/settle/{order_id} [post]
func (h *PayoutHandler) SettleOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.coordinator.SettleOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPayouts godoc
// @Summary List payouts
// @Description Lists payout ledger entries with pagination, sorting and filtering
// @Tags payouts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param company_id query string false "Filter by seller company"
// @Param status query string false "Filter by payout status"
// @Success 200 {object} APIResponse[[]payoutapp.PayoutResponse]
// @Router /payouts [get]
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	req := ListPayoutsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, "invalid date filter, expected RFC3339")
		return
	}

	result, err := h.payoutService.ListPayouts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetPayout godoc
// @Summary Get a payout
// @Tags payouts
// @Produce json
// @Param id path string true "Payout ID"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Router /payouts/{id} [get]
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	resp, err := h.payoutService.GetPayout(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPayoutForOrder godoc
// @Summary Get the payout for an order
// @Tags payouts
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Router /payouts/order/{order_id} [get]
func (h *PayoutHandler) GetPayoutForOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.payoutService.GetPayoutForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkProcessing godoc
// @Summary Mark a payout as processing
// @Description Moves a pending payout into the processing state before dispatching funds
// @Tags payouts
// @Produce json
// @Param id path string true "Payout ID"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payouts/{id}/processing [post]
func (h *PayoutHandler) MarkProcessing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	resp, err := h.payoutService.MarkProcessing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompletePayout godoc
// @Summary Complete a payout
// @Description Completes a processing payout. Stripe payouts transfer through the connected account; manual payouts record the operator reference.
// @Tags payouts
// @Accept json
// @Produce json
// @Param id path string true "Payout ID"
// @Param request body payoutapp.CompletePayoutRequest false "Manual settlement details"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /payouts/{id}/complete [post]
func (h *PayoutHandler) CompletePayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	var req payoutapp.CompletePayoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	resp, err := h.payoutService.MarkCompleted(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FailPayout godoc
// @Summary Fail a payout
// @Description Records a transfer failure with its reason
// @Tags payouts
// @Accept json
// @Produce json
// @Param id path string true "Payout ID"
// @Param request body payoutapp.FailPayoutRequest true "Failure reason"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payouts/{id}/fail [post]
func (h *PayoutHandler) FailPayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	var req payoutapp.FailPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.payoutService.MarkFailed(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RetryPayout godoc
// @Summary Retry a failed payout
// @Description Returns a failed payout to pending so it can be dispatched again
// @Tags payouts
// @Produce json
// @Param id path string true "Payout ID"
// @Success 200 {object} APIResponse[payoutapp.PayoutResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payouts/{id}/retry [post]
func (h *PayoutHandler) RetryPayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	resp, err := h.payoutService.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompanyEarnings godoc
// @Summary Get a company's earnings summary
// @Description Sums payout amounts per status for one seller company
// @Tags payouts
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} APIResponse[payoutapp.CompanyEarningsResponse]
// @Router /payouts/company/{company_id}/earnings [get]
func (h *PayoutHandler) CompanyEarnings(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("company_id"))
	if err != nil {
		h.BadRequest(c, "invalid company ID")
		return
	}

	resp, err := h.payoutService.CompanyEarnings(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers the payout endpoints
func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := router.NewDomainGroup(rg, "payouts")
	group.POST("", h.CreatePayout)
	group.GET("", h.ListPayouts)
	group.POST("/settle/:order_id", h.SettleOrder)
	group.GET("/order/:order_id", h.GetPayoutForOrder)
	group.GET("/company/:company_id/earnings", h.CompanyEarnings)
	group.GET("/:id", h.GetPayout)
	group.POST("/:id/processing", h.MarkProcessing)
	group.POST("/:id/complete", h.CompletePayout)
	group.POST("/:id/fail", h.FailPayout)
	group.POST("/:id/retry", h.RetryPayout)
}

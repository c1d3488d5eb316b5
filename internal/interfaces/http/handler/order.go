package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
)

// OrderHandler exposes order query and lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *checkoutapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *checkoutapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrdersRequest is the query surface for listing orders
type ListOrdersRequest struct {
	dto.ListRequest
	SellerCompanyID string `form:"seller_company_id" binding:"omitempty,uuid"`
	Status          string `form:"status"`
	PaymentStatus   string `form:"payment_status"`
	Currency        string `form:"currency" binding:"omitempty,len=3"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
}

func (r *ListOrdersRequest) toFilter() (shared.Filter, error) {
	filter := toListFilter(r.ListRequest)
	if r.SellerCompanyID != "" {
		filter.Filters["seller_company_id"] = r.SellerCompanyID
	}
	if r.Status != "" {
		filter.Filters["status"] = r.Status
	}
	if r.PaymentStatus != "" {
		filter.Filters["payment_status"] = r.PaymentStatus
	}
	if r.Currency != "" {
		filter.Filters["currency"] = r.Currency
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

// ListOrders godoc
// @Summary List orders
// @Description Lists orders with pagination, sorting and filtering
// @Tags orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param seller_company_id query string false "Filter by seller company"
// @Param status query string false "Filter by order status"
// @Param payment_status query string false "Filter by payment status"
// @Success 200 {object} APIResponse[[]checkoutapp.OrderListItemResponse]
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	req := ListOrdersRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, "invalid date filter, expected RFC3339")
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetOrder godoc
// @Summary Get an order
// @Description Returns an order with its line items and settlement breakdown
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPayments godoc
// @Summary List payments for an order
// @Description Returns all payment attempts recorded against an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} APIResponse[[]checkoutapp.PaymentResponse]
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/payments [get]
func (h *OrderHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	payments, err := h.orderService.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// UpdateStatus godoc
// @Summary Update order status
// @Description Moves an order along its fulfillment lifecycle
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body checkoutapp.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req checkoutapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers the order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := router.NewDomainGroup(rg, "orders")
	group.GET("", h.ListOrders)
	group.GET("/:id", h.GetOrder)
	group.GET("/:id/payments", h.ListPayments)
	group.PUT("/:id/status", h.UpdateStatus)
}

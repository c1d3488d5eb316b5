package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	settlementapp "github.com/tradelink/backend/internal/application/settlement"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
)

// CheckoutHandler exposes the checkout flow endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
	coordinator     *settlementapp.Coordinator
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService, coordinator *settlementapp.Coordinator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		coordinator:     coordinator,
	}
}

// ValidateCart godoc
// @Summary Validate a cart
// @Description Checks the cart against single seller and stock rules without creating an order
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body checkoutapp.ValidateCartRequest true "Cart to validate"
// @Success 200 {object} APIResponse[checkoutapp.ValidateCartResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/cart/validate [post]
func (h *CheckoutHandler) ValidateCart(c *gin.Context) {
	var req checkoutapp.ValidateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkoutService.ValidateCart(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateOrder godoc
// @Summary Create an order from a cart
// @Description Prices the cart, computes the fee breakdown and persists a pending order
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body checkoutapp.CreateOrderRequest true "Order to create"
// @Success 201 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/orders [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req checkoutapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkoutService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RequestAuthorization godoc
// @Summary Request payment authorization for an order
// @Description Creates a payment intent at the processor and returns the client token
// @Tags checkout
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} APIResponse[checkoutapp.AuthorizationResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/orders/{id}/authorize [post]
func (h *CheckoutHandler) RequestAuthorization(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	resp, err := h.checkoutService.RequestAuthorization(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmPayment godoc
// @Summary Confirm a payment
// @Description Fetches the intent outcome from the processor and settles the order. Safe to call repeatedly for the same intent.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body checkoutapp.ConfirmPaymentRequest true "Intent to confirm"
// @Success 200 {object} APIResponse[checkoutapp.ConfirmPaymentResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/orders/confirm [post]
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req checkoutapp.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkoutService.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompleteCheckout godoc
// @Summary Validate, create and authorize in one call
// @Description Runs cart validation, order creation and payment authorization as a single step
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body settlementapp.CompleteCheckoutRequest true "Checkout to complete"
// @Success 201 {object} APIResponse[settlementapp.CompleteCheckoutResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/complete [post]
func (h *CheckoutHandler) CompleteCheckout(c *gin.Context) {
	var req settlementapp.CompleteCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.coordinator.CompleteCheckout(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RegisterRoutes registers the checkout endpoints
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := router.NewDomainGroup(rg, "checkout")
	group.POST("/cart/validate", h.ValidateCart)
	group.POST("/orders", h.CreateOrder)
	group.POST("/orders/confirm", h.ConfirmPayment)
	group.POST("/orders/:id/authorize", h.RequestAuthorization)
	group.POST("/complete", h.CompleteCheckout)
}

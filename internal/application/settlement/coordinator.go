package settlement

import (
	"context"

	"github.com/google/uuid"
	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	payoutapp "github.com/tradelink/backend/internal/application/payout"
	"go.uber.org/zap"
)

// CompleteCheckoutRequest runs cart validation, order creation, and payment
// authorization as one call
type CompleteCheckoutRequest struct {
	checkoutapp.CreateOrderRequest
}

// CompleteCheckoutResponse carries the created order and its authorization
type CompleteCheckoutResponse struct {
	Order         checkoutapp.OrderResponse         `json:"order"`
	Authorization checkoutapp.AuthorizationResponse `json:"authorization"`
}

// Coordinator wires the checkout and payout flows into the two composite
// operations the storefront and back office call. It owns no state of its
// own; every step delegates to the underlying services, so each composite is
// as retriable as its parts.
type Coordinator struct {
	checkoutService *checkoutapp.CheckoutService
	payoutService   *payoutapp.PayoutService
	logger          *zap.Logger
}

// NewCoordinator creates a new settlement Coordinator
func NewCoordinator(checkoutService *checkoutapp.CheckoutService, payoutService *payoutapp.PayoutService, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		checkoutService: checkoutService,
		payoutService:   payoutService,
		logger:          logger,
	}
}

// CompleteCheckout validates the cart, creates the order, and requests the
// payment authorization in sequence. A failure after order creation leaves a
// pending order the buyer can re-authorize; nothing needs rolling back.
func (c *Coordinator) CompleteCheckout(ctx context.Context, req *CompleteCheckoutRequest) (*CompleteCheckoutResponse, error) {
	order, err := c.checkoutService.CreateOrder(ctx, &req.CreateOrderRequest)
	if err != nil {
		return nil, err
	}

	auth, err := c.checkoutService.RequestAuthorization(ctx, order.ID)
	if err != nil {
		c.logger.Warn("Authorization failed after order creation, order stays pending",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}

	return &CompleteCheckoutResponse{Order: *order, Authorization: *auth}, nil
}

// SettleOrder derives the seller payout for a paid order. It is callable any
// number of times; repeat calls return the existing payout.
func (c *Coordinator) SettleOrder(ctx context.Context, orderID uuid.UUID) (*payoutapp.CreatePayoutResponse, error) {
	return c.payoutService.CreateFromOrder(ctx, &payoutapp.CreatePayoutRequest{OrderID: orderID})
}

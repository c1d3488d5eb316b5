package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderPaidHandler clears purchased items from the buyer's cart once payment
// is confirmed. It is registered behind the idempotent-handler decorator, so
// the webhook and client confirmation paths firing the same event remove the
// cart at most once.
type OrderPaidHandler struct {
	cartRemover settlement.CartRemover
	logger      *zap.Logger
}

// NewOrderPaidHandler creates a new handler for order paid events
func NewOrderPaidHandler(cartRemover settlement.CartRemover, logger *zap.Logger) *OrderPaidHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPaidHandler{
		cartRemover: cartRemover,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPaidHandler) EventTypes() []string {
	return []string{settlement.EventTypeOrderPaid}
}

// Handle removes the purchased products from the buyer's cart
func (h *OrderPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paidEvent, ok := event.(*settlement.OrderPaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			settlement.EventTypeOrderPaid, event.EventType())
	}

	productIDs := make([]uuid.UUID, len(paidEvent.Items))
	for i, item := range paidEvent.Items {
		productIDs[i] = item.ProductID
	}

	if err := h.cartRemover.RemovePurchasedItems(ctx, paidEvent.BuyerEmail, productIDs); err != nil {
		h.logger.Error("Failed to remove purchased items from cart",
			zap.String("order_id", paidEvent.OrderID.String()),
			zap.String("buyer_email", paidEvent.BuyerEmail),
			zap.Error(err))
		return fmt.Errorf("failed to remove purchased items: %w", err)
	}

	h.logger.Info("Purchased items removed from cart",
		zap.String("order_id", paidEvent.OrderID.String()),
		zap.Int("item_count", len(productIDs)))
	return nil
}

package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder        = "Order"
	AggregateTypeSellerPayout = "SellerPayout"
)

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is raised when a new order is created at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	SellerCompanyID uuid.UUID `json:"seller_company_id"`
	BuyerEmail      string    `json:"buyer_email"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SellerCompanyID: order.SellerCompanyID,
		BuyerEmail:      order.BuyerEmail,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderPaidItemInfo carries the line-item identifiers downstream consumers
// (cart removal) need, without exposing the full aggregate
type OrderPaidItemInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// OrderPaidEvent is raised exactly once, when payment confirmation succeeds.
// It is the completion signal consumed by cart removal and order-status
// progression.
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID           `json:"order_id"`
	OrderNumber     string              `json:"order_number"`
	SellerCompanyID uuid.UUID           `json:"seller_company_id"`
	BuyerEmail      string              `json:"buyer_email"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Currency        string              `json:"currency"`
	Items           []OrderPaidItemInfo `json:"items"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(order *Order) *OrderPaidEvent {
	items := make([]OrderPaidItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderPaidItemInfo{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SellerCompanyID: order.SellerCompanyID,
		BuyerEmail:      order.BuyerEmail,
		TotalAmount:     order.TotalAmount,
		Currency:        string(order.Currency),
		Items:           items,
	}
}

// EventType returns the event type name
func (e *OrderPaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// OrderStatusChangedEvent is raised on fulfillment status transitions
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

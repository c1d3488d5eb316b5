package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
)

// Payout event type constants
const (
	EventTypePayoutCreated   = "PayoutCreated"
	EventTypePayoutCompleted = "PayoutCompleted"
)

// PayoutCreatedEvent is raised when a payout is derived from a paid order
type PayoutCreatedEvent struct {
	shared.BaseDomainEvent
	PayoutID    uuid.UUID       `json:"payout_id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Currency    string          `json:"currency"`
	Method      PayoutMethod    `json:"method"`
}

// NewPayoutCreatedEvent creates a new PayoutCreatedEvent
func NewPayoutCreatedEvent(payout *SellerPayout) *PayoutCreatedEvent {
	return &PayoutCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutCreated, AggregateTypeSellerPayout, payout.ID),
		PayoutID:        payout.ID,
		CompanyID:       payout.CompanyID,
		OrderID:         payout.OrderID,
		NetAmount:       payout.NetAmount,
		PlatformFee:     payout.PlatformFee,
		Currency:        string(payout.Currency),
		Method:          payout.Method,
	}
}

// EventType returns the event type name
func (e *PayoutCreatedEvent) EventType() string {
	return EventTypePayoutCreated
}

// PayoutCompletedEvent is raised when a payout reaches its terminal state
type PayoutCompletedEvent struct {
	shared.BaseDomainEvent
	PayoutID  uuid.UUID       `json:"payout_id"`
	CompanyID uuid.UUID       `json:"company_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	NetAmount decimal.Decimal `json:"net_amount"`
	Currency  string          `json:"currency"`
	Method    PayoutMethod    `json:"method"`
}

// NewPayoutCompletedEvent creates a new PayoutCompletedEvent
func NewPayoutCompletedEvent(payout *SellerPayout) *PayoutCompletedEvent {
	return &PayoutCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutCompleted, AggregateTypeSellerPayout, payout.ID),
		PayoutID:        payout.ID,
		CompanyID:       payout.CompanyID,
		OrderID:         payout.OrderID,
		NetAmount:       payout.NetAmount,
		Currency:        string(payout.Currency),
		Method:          payout.Method,
	}
}

// EventType returns the event type name
func (e *PayoutCompletedEvent) EventType() string {
	return EventTypePayoutCompleted
}

package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByBuyerEmail finds orders placed by a buyer
	FindByBuyerEmail(ctx context.Context, email string, filter shared.Filter) ([]Order, error)

	// FindBySellerCompany finds orders that settle to a seller company
	FindBySellerCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by fulfillment status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check).
	// Returns shared.ErrConcurrencyConflict if the version does not match.
	SaveWithLock(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates a unique order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// PaymentRepository defines the interface for payment record persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrderID finds all payment attempts for an order, newest first
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// FindCompletedByOrderID finds the completed payment for an order, if any
	FindCompletedByOrderID(ctx context.Context, orderID uuid.UUID) (*Payment, error)

	// FindByTransactionID finds a payment by processor transaction ID
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)

	// Save creates a payment record
	Save(ctx context.Context, payment *Payment) error

	// CreateWithOrderPaid persists the payment and the order's paid state in a
	// single transaction. A partial unique index on completed payments makes
	// the second concurrent confirmation fail with
	// shared.ErrAlreadyExists instead of double-recording.
	CreateWithOrderPaid(ctx context.Context, payment *Payment, order *Order) error
}

// PayoutRepository defines the interface for seller payout persistence
type PayoutRepository interface {
	// FindByID finds a payout by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SellerPayout, error)

	// FindByOrderID finds the payout for an order, if one exists
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*SellerPayout, error)

	// FindAll finds payouts with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]SellerPayout, error)

	// FindByCompany finds payouts owed to a company
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SellerPayout, error)

	// FindByStatus finds payouts by status
	FindByStatus(ctx context.Context, status PayoutStatus, filter shared.Filter) ([]SellerPayout, error)

	// Create inserts a new payout. The unique index on order ID makes a
	// duplicate insert return shared.ErrAlreadyExists; callers treat that as
	// "payout already recorded" and re-read the existing row.
	Create(ctx context.Context, payout *SellerPayout) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payout *SellerPayout) error

	// Count counts payouts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumNetByCompany sums net amounts per status for a company. Used for the
	// company earnings summary.
	SumNetByCompany(ctx context.Context, companyID uuid.UUID) (map[PayoutStatus]decimal.Decimal, error)
}

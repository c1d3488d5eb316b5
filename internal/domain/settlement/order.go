package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the business fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProduction,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusInProduction || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusInProduction:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the financial status of an order, independent of
// the fulfillment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal // Quantity * UnitPrice
	Specifications string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Money, specifications string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		Quantity:       quantity,
		UnitPrice:      unitPrice.Amount(),
		Amount:         quantity.Mul(unitPrice.Amount()),
		Specifications: specifications,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// BuyerInfo is the buyer snapshot captured on the order at checkout time
type BuyerInfo struct {
	Name            string
	Email           string
	Company         string
	ShippingAddress string
	BillingAddress  string
}

// Validate checks the required buyer fields
func (b BuyerInfo) Validate() error {
	if b.Name == "" {
		return shared.NewDomainError("INVALID_BUYER_NAME", "Buyer name cannot be empty")
	}
	if b.Email == "" {
		return shared.NewDomainError("INVALID_BUYER_EMAIL", "Buyer email cannot be empty")
	}
	if b.ShippingAddress == "" {
		return shared.NewDomainError("INVALID_SHIPPING_ADDRESS", "Shipping address cannot be empty")
	}
	if b.BillingAddress == "" {
		return shared.NewDomainError("INVALID_BILLING_ADDRESS", "Billing address cannot be empty")
	}
	return nil
}

// Order represents one buyer transaction with one seller company.
// TotalAmount is the full amount charged to the buyer, inclusive of the
// platform fee; it never changes after creation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string
	SellerCompanyID   uuid.UUID
	BuyerName         string
	BuyerEmail        string
	BuyerCompany      string
	ShippingAddress   string
	BillingAddress    string
	Notes             string
	Items             []OrderItem
	Subtotal          decimal.Decimal
	ShippingAmount    decimal.Decimal
	TaxAmount         decimal.Decimal
	PlatformFeeAmount decimal.Decimal
	TotalAmount       decimal.Decimal
	Currency          valueobject.Currency
	Status            OrderStatus
	PaymentStatus     PaymentStatus
	ConfirmedAt       *time.Time
	PaidAt            *time.Time
}

// NewOrder creates a new pending order for a single seller company
func NewOrder(orderNumber string, sellerCompanyID uuid.UUID, buyer BuyerInfo, notes string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if sellerCompanyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Seller company ID cannot be empty")
	}
	if err := buyer.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SellerCompanyID:   sellerCompanyID,
		BuyerName:         buyer.Name,
		BuyerEmail:        buyer.Email,
		BuyerCompany:      buyer.Company,
		ShippingAddress:   buyer.ShippingAddress,
		BillingAddress:    buyer.BillingAddress,
		Notes:             notes,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		ShippingAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		PlatformFeeAmount: decimal.Zero,
		TotalAmount:       decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem appends a line item and recalculates the subtotal.
// Items can only be added before pricing is finalized.
func (o *Order) AddItem(productID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Money, specifications string) error {
	if !o.TotalAmount.IsZero() {
		return shared.NewDomainError("ORDER_PRICED", "Cannot add items after the order total is finalized")
	}
	item, err := NewOrderItem(o.ID, productID, quantity, unitPrice, specifications)
	if err != nil {
		return err
	}
	o.Items = append(o.Items, *item)
	o.Subtotal = o.Subtotal.Add(item.Amount)
	o.UpdatedAt = time.Now()
	return nil
}

// FinalizePricing freezes the order amounts. The total must equal
// subtotal + shipping + tax + platform fee; it is immutable afterwards.
func (o *Order) FinalizePricing(shipping, tax, platformFee, total decimal.Decimal) error {
	if !o.TotalAmount.IsZero() {
		return shared.NewDomainError("ORDER_PRICED", "Order total is already finalized")
	}
	if total.IsNegative() || shipping.IsNegative() || tax.IsNegative() || platformFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	}
	expected := o.Subtotal.Add(shipping).Add(tax).Add(platformFee).RoundBank(2)
	if !total.RoundBank(2).Equal(expected) {
		return shared.NewDomainError("AMOUNT_MISMATCH", "Order total does not reconcile with its components")
	}
	o.ShippingAmount = shipping
	o.TaxAmount = tax
	o.PlatformFeeAmount = platformFee
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	return nil
}

// IsPaid returns true when the buyer's payment has been captured in full
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// MarkPaid transitions the order's payment status to paid.
// Only the payment confirmation path mutates payment status.
func (o *Order) MarkPaid(paidAt time.Time) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}
	if o.PaymentStatus != PaymentStatusPending && o.PaymentStatus != PaymentStatusPartial {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "Order cannot be marked paid from its current payment status")
	}
	o.PaymentStatus = PaymentStatusPaid
	o.PaidAt = &paidAt
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// TransitionStatus moves the order through the fulfillment state machine
func (o *Order) TransitionStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Order cannot transition from "+o.Status.String()+" to "+target.String())
	}
	o.Status = target
	now := time.Now()
	if target == OrderStatusConfirmed {
		o.ConfirmedAt = &now
	}
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, target))
	return nil
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.TotalAmount, o.Currency)
	return m
}

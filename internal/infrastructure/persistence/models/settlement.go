package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber       string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_order_number"`
	SellerCompanyID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	BuyerName         string                   `gorm:"type:varchar(200);not null"`
	BuyerEmail        string                   `gorm:"type:varchar(320);not null;index"`
	BuyerCompany      string                   `gorm:"type:varchar(200)"`
	ShippingAddress   string                   `gorm:"type:text;not null"`
	BillingAddress    string                   `gorm:"type:text;not null"`
	Notes             string                   `gorm:"type:text"`
	Items             []OrderItemModel         `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingAmount    decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount         decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	PlatformFeeAmount decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount       decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Currency          string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	Status            settlement.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus     settlement.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ConfirmedAt       *time.Time               `gorm:"index"`
	PaidAt            *time.Time               `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *settlement.Order {
	order := &settlement.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:       m.OrderNumber,
		SellerCompanyID:   m.SellerCompanyID,
		BuyerName:         m.BuyerName,
		BuyerEmail:        m.BuyerEmail,
		BuyerCompany:      m.BuyerCompany,
		ShippingAddress:   m.ShippingAddress,
		BillingAddress:    m.BillingAddress,
		Notes:             m.Notes,
		Subtotal:          m.Subtotal,
		ShippingAmount:    m.ShippingAmount,
		TaxAmount:         m.TaxAmount,
		PlatformFeeAmount: m.PlatformFeeAmount,
		TotalAmount:       m.TotalAmount,
		Currency:          valueobject.Currency(m.Currency),
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		ConfirmedAt:       m.ConfirmedAt,
		PaidAt:            m.PaidAt,
		Items:             make([]settlement.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *settlement.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SellerCompanyID = o.SellerCompanyID
	m.BuyerName = o.BuyerName
	m.BuyerEmail = o.BuyerEmail
	m.BuyerCompany = o.BuyerCompany
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.Notes = o.Notes
	m.Subtotal = o.Subtotal
	m.ShippingAmount = o.ShippingAmount
	m.TaxAmount = o.TaxAmount
	m.PlatformFeeAmount = o.PlatformFeeAmount
	m.TotalAmount = o.TotalAmount
	m.Currency = string(o.Currency)
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.ConfirmedAt = o.ConfirmedAt
	m.PaidAt = o.PaidAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *settlement.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
type OrderItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Specifications string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() *settlement.OrderItem {
	return &settlement.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Amount:         m.Amount,
		Specifications: m.Specifications,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem entity.
func (m *OrderItemModel) FromDomain(i *settlement.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.Amount = i.Amount
	m.Specifications = i.Specifications
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem.
func OrderItemModelFromDomain(i *settlement.OrderItem) *OrderItemModel {
	m := &OrderItemModel{}
	m.FromDomain(i)
	return m
}

// PaymentModel is the persistence model for the Payment record. Rows are
// insert-only; a partial unique index on (order_id) where status='completed'
// makes a second completed payment for the same order fail at the database.
type PaymentModel struct {
	BaseModel
	OrderID         uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Method          string                         `gorm:"type:varchar(50);not null"`
	Amount          decimal.Decimal                `gorm:"type:decimal(18,4);not null"`
	Currency        string                         `gorm:"type:varchar(3);not null;default:'USD'"`
	Status          settlement.PaymentRecordStatus `gorm:"type:varchar(20);not null;index"`
	TransactionID   string                         `gorm:"type:varchar(255);index"`
	GatewayResponse string                         `gorm:"type:text"`
	ProcessedAt     *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment record.
func (m *PaymentModel) ToDomain() *settlement.Payment {
	return &settlement.Payment{
		BaseEntity:      m.BaseModel.ToDomain(),
		OrderID:         m.OrderID,
		Method:          m.Method,
		Amount:          m.Amount,
		Currency:        valueobject.Currency(m.Currency),
		Status:          m.Status,
		TransactionID:   m.TransactionID,
		GatewayResponse: m.GatewayResponse,
		ProcessedAt:     m.ProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment record.
func (m *PaymentModel) FromDomain(p *settlement.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.OrderID = p.OrderID
	m.Method = p.Method
	m.Amount = p.Amount
	m.Currency = string(p.Currency)
	m.Status = p.Status
	m.TransactionID = p.TransactionID
	m.GatewayResponse = p.GatewayResponse
	m.ProcessedAt = p.ProcessedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *settlement.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// SellerPayoutModel is the persistence model for the SellerPayout aggregate.
// The unique index on order_id is the idempotency anchor: one payout per
// order, enforced by the database.
type SellerPayoutModel struct {
	AggregateModel
	CompanyID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	OrderID            uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_seller_payouts_order_id"`
	GrossAmount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PlatformFee        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	NetAmount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Currency           string                  `gorm:"type:varchar(3);not null;default:'USD'"`
	PlatformFeePercent decimal.Decimal         `gorm:"type:decimal(8,4);not null"`
	Method             settlement.PayoutMethod `gorm:"type:varchar(20);not null"`
	Status             settlement.PayoutStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	StripeTransferID   string                  `gorm:"type:varchar(255)"`
	ManualReference    string                  `gorm:"type:varchar(255)"`
	ManualNotes        string                  `gorm:"type:text"`
	FailureReason      string                  `gorm:"type:varchar(500)"`
	ProcessedAt        *time.Time
	FailedAt           *time.Time
}

// TableName returns the table name for GORM
func (SellerPayoutModel) TableName() string {
	return "seller_payouts"
}

// ToDomain converts the persistence model to a domain SellerPayout aggregate.
func (m *SellerPayoutModel) ToDomain() *settlement.SellerPayout {
	payout := &settlement.SellerPayout{
		CompanyID:          m.CompanyID,
		OrderID:            m.OrderID,
		GrossAmount:        m.GrossAmount,
		PlatformFee:        m.PlatformFee,
		NetAmount:          m.NetAmount,
		Currency:           valueobject.Currency(m.Currency),
		PlatformFeePercent: m.PlatformFeePercent,
		Method:             m.Method,
		Status:             m.Status,
		StripeTransferID:   m.StripeTransferID,
		ManualReference:    m.ManualReference,
		ManualNotes:        m.ManualNotes,
		FailureReason:      m.FailureReason,
		ProcessedAt:        m.ProcessedAt,
		FailedAt:           m.FailedAt,
	}
	m.PopulateAggregateRoot(&payout.BaseAggregateRoot)
	return payout
}

// FromDomain populates the persistence model from a domain SellerPayout.
func (m *SellerPayoutModel) FromDomain(p *settlement.SellerPayout) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CompanyID = p.CompanyID
	m.OrderID = p.OrderID
	m.GrossAmount = p.GrossAmount
	m.PlatformFee = p.PlatformFee
	m.NetAmount = p.NetAmount
	m.Currency = string(p.Currency)
	m.PlatformFeePercent = p.PlatformFeePercent
	m.Method = p.Method
	m.Status = p.Status
	m.StripeTransferID = p.StripeTransferID
	m.ManualReference = p.ManualReference
	m.ManualNotes = p.ManualNotes
	m.FailureReason = p.FailureReason
	m.ProcessedAt = p.ProcessedAt
	m.FailedAt = p.FailedAt
}

// SellerPayoutModelFromDomain creates a new persistence model from a domain SellerPayout.
func SellerPayoutModelFromDomain(p *settlement.SellerPayout) *SellerPayoutModel {
	m := &SellerPayoutModel{}
	m.FromDomain(p)
	return m
}

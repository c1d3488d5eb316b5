package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/settlement"
)

// ==================== Cart DTOs ====================

// CartItemInput represents one cart line submitted at checkout
type CartItemInput struct {
	ProductID       uuid.UUID         `json:"product_id" binding:"required"`
	ProductName     string            `json:"product_name"`
	SellerCompanyID uuid.UUID         `json:"seller_company_id" binding:"required"`
	Quantity        decimal.Decimal   `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal   `json:"unit_price" binding:"required"`
	Specifications  map[string]string `json:"specifications"`
}

// ToCartItem converts the input to a domain cart item
func (i CartItemInput) ToCartItem() settlement.CartItem {
	return settlement.CartItem{
		ProductID:       i.ProductID,
		ProductName:     i.ProductName,
		SellerCompanyID: i.SellerCompanyID,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		Specifications:  i.Specifications,
	}
}

// ValidateCartRequest represents a cart validation request
type ValidateCartRequest struct {
	Items []CartItemInput `json:"items" binding:"required"`
}

// ValidateCartResponse carries the single seller the cart resolves to
type ValidateCartResponse struct {
	SellerCompanyID uuid.UUID       `json:"seller_company_id"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ItemCount       int             `json:"item_count"`
}

// ==================== Order DTOs ====================

// BuyerInput is the buyer snapshot captured on the order
type BuyerInput struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Email           string `json:"email" binding:"required,email"`
	Company         string `json:"company"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	BillingAddress  string `json:"billing_address" binding:"required"`
}

// CreateOrderRequest represents a request to create an order from a cart
type CreateOrderRequest struct {
	Items          []CartItemInput `json:"items" binding:"required,min=1"`
	Buyer          BuyerInput      `json:"buyer" binding:"required"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Notes          string          `json:"notes"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Amount         decimal.Decimal `json:"amount"`
	Specifications string          `json:"specifications,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	SellerCompanyID   uuid.UUID           `json:"seller_company_id"`
	BuyerName         string              `json:"buyer_name"`
	BuyerEmail        string              `json:"buyer_email"`
	BuyerCompany      string              `json:"buyer_company,omitempty"`
	ShippingAddress   string              `json:"shipping_address"`
	BillingAddress    string              `json:"billing_address"`
	Items             []OrderItemResponse `json:"items"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	ShippingAmount    decimal.Decimal     `json:"shipping_amount"`
	TaxAmount         decimal.Decimal     `json:"tax_amount"`
	PlatformFeeAmount decimal.Decimal     `json:"platform_fee_amount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Currency          string              `json:"currency"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"payment_status"`
	Notes             string              `json:"notes,omitempty"`
	ConfirmedAt       *time.Time          `json:"confirmed_at,omitempty"`
	PaidAt            *time.Time          `json:"paid_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Version           int                 `json:"version"`
}

// OrderListItemResponse is the compact order shape for list endpoints
type OrderListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	SellerCompanyID uuid.UUID       `json:"seller_company_id"`
	BuyerEmail      string          `json:"buyer_email"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain order to its response DTO
func ToOrderResponse(order *settlement.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Amount:         item.Amount,
			Specifications: item.Specifications,
		}
	}

	return OrderResponse{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		SellerCompanyID:   order.SellerCompanyID,
		BuyerName:         order.BuyerName,
		BuyerEmail:        order.BuyerEmail,
		BuyerCompany:      order.BuyerCompany,
		ShippingAddress:   order.ShippingAddress,
		BillingAddress:    order.BillingAddress,
		Items:             items,
		Subtotal:          order.Subtotal,
		ShippingAmount:    order.ShippingAmount,
		TaxAmount:         order.TaxAmount,
		PlatformFeeAmount: order.PlatformFeeAmount,
		TotalAmount:       order.TotalAmount,
		Currency:          string(order.Currency),
		Status:            string(order.Status),
		PaymentStatus:     string(order.PaymentStatus),
		Notes:             order.Notes,
		ConfirmedAt:       order.ConfirmedAt,
		PaidAt:            order.PaidAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		Version:           order.Version,
	}
}

// ToOrderListItemResponses converts a slice of domain orders to list DTOs
func ToOrderListItemResponses(orders []settlement.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = OrderListItemResponse{
			ID:              o.ID,
			OrderNumber:     o.OrderNumber,
			SellerCompanyID: o.SellerCompanyID,
			BuyerEmail:      o.BuyerEmail,
			TotalAmount:     o.TotalAmount,
			Currency:        string(o.Currency),
			Status:          string(o.Status),
			PaymentStatus:   string(o.PaymentStatus),
			PaidAt:          o.PaidAt,
			CreatedAt:       o.CreatedAt,
		}
	}
	return responses
}

// ==================== Payment DTOs ====================

// AuthorizationResponse carries the processor handle for client confirmation
type AuthorizationResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	IntentID    string    `json:"intent_id"`
	ClientToken string    `json:"client_token"`
}

// ConfirmPaymentRequest represents a payment confirmation request.
// It is safe to submit more than once for the same order.
type ConfirmPaymentRequest struct {
	IntentID string    `json:"intent_id" binding:"required"`
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
}

// ConfirmPaymentResponse reports the confirmation outcome
type ConfirmPaymentResponse struct {
	Success          bool          `json:"success"`
	AlreadyProcessed bool          `json:"already_processed"`
	FailureMessage   string        `json:"failure_message,omitempty"`
	Order            OrderResponse `json:"order"`
}

// PaymentResponse represents a payment record with its derived breakdown
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrderID           uuid.UUID       `json:"order_id"`
	Method            string          `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	PlatformFeeAmount decimal.Decimal `json:"platform_fee_amount"`
	MerchantAmount    decimal.Decimal `json:"merchant_amount"`
	PaymentFlow       string          `json:"payment_flow,omitempty"`
	MerchantCountry   string          `json:"merchant_country,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment and its derived breakdown to a DTO
func ToPaymentResponse(payment *settlement.Payment, breakdown *settlement.PaymentBreakdown) PaymentResponse {
	resp := PaymentResponse{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Method:        payment.Method,
		Amount:        payment.Amount,
		Currency:      string(payment.Currency),
		Status:        string(payment.Status),
		TransactionID: payment.TransactionID,
		ProcessedAt:   payment.ProcessedAt,
		CreatedAt:     payment.CreatedAt,
	}
	if breakdown != nil {
		resp.PlatformFeeAmount = breakdown.PlatformFeeAmount
		resp.MerchantAmount = breakdown.MerchantAmount
		resp.PaymentFlow = breakdown.PaymentFlow
		resp.MerchantCountry = breakdown.MerchantCountry
	}
	return resp
}

// UpdateOrderStatusRequest represents a fulfillment status transition request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

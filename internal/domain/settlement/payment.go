package settlement

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// PaymentRecordStatus represents the terminal outcome of one external
// processor transaction attempt
type PaymentRecordStatus string

const (
	PaymentRecordStatusPending   PaymentRecordStatus = "pending"
	PaymentRecordStatusCompleted PaymentRecordStatus = "completed"
	PaymentRecordStatusFailed    PaymentRecordStatus = "failed"
)

// IsValid checks if the status is a valid PaymentRecordStatus
func (s PaymentRecordStatus) IsValid() bool {
	switch s {
	case PaymentRecordStatusPending, PaymentRecordStatusCompleted, PaymentRecordStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentRecordStatus
func (s PaymentRecordStatus) String() string {
	return string(s)
}

// Payment is an immutable record of one external-processor transaction that
// reached a terminal outcome. Failed attempts produce their own row; a prior
// row is never updated. The financial breakdown is derived on read from the
// gateway-response snapshot, never duplicated as columns, so the two can
// never drift apart.
type Payment struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	Method          string
	Amount          decimal.Decimal
	Currency        valueobject.Currency
	Status          PaymentRecordStatus
	TransactionID   string
	GatewayResponse string // full processor response snapshot (JSON)
	ProcessedAt     *time.Time
}

// NewPayment creates a payment record for an order. The amount must equal the
// order's total; a mismatch means the caller confirmed the wrong intent.
func NewPayment(order *Order, method string, status PaymentRecordStatus, transactionID, gatewayResponse string, processedAt time.Time) (*Payment, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if method == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}

	return &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         order.ID,
		Method:          method,
		Amount:          order.TotalAmount,
		Currency:        order.Currency,
		Status:          status,
		TransactionID:   transactionID,
		GatewayResponse: gatewayResponse,
		ProcessedAt:     &processedAt,
	}, nil
}

// PaymentBreakdown is the financial view of a payment, derived from the
// gateway-response snapshot
type PaymentBreakdown struct {
	PlatformFeeAmount decimal.Decimal `json:"platform_fee_amount"`
	MerchantAmount    decimal.Decimal `json:"merchant_amount"`
	PaymentFlow       string          `json:"payment_flow"`
	MerchantCountry   string          `json:"merchant_country"`
}

// gatewaySnapshot is the subset of the processor response the breakdown reads
type gatewaySnapshot struct {
	Metadata map[string]string `json:"metadata"`
}

// Breakdown derives the financial breakdown from the stored gateway response.
// Amount fields missing from the snapshot come back as zero; a malformed
// snapshot is an error so silent drift cannot hide behind defaults.
func (p *Payment) Breakdown() (*PaymentBreakdown, error) {
	if p.GatewayResponse == "" {
		return &PaymentBreakdown{
			PlatformFeeAmount: decimal.Zero,
			MerchantAmount:    decimal.Zero,
		}, nil
	}

	var snap gatewaySnapshot
	if err := json.Unmarshal([]byte(p.GatewayResponse), &snap); err != nil {
		return nil, fmt.Errorf("payment: malformed gateway response snapshot: %w", err)
	}

	breakdown := &PaymentBreakdown{
		PlatformFeeAmount: decimal.Zero,
		MerchantAmount:    decimal.Zero,
		PaymentFlow:       snap.Metadata[MetadataKeyPaymentFlow],
		MerchantCountry:   snap.Metadata[MetadataKeyMerchantCountry],
	}

	if v, ok := snap.Metadata[MetadataKeyPlatformFeeAmount]; ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("payment: invalid platform fee amount in snapshot: %w", err)
		}
		breakdown.PlatformFeeAmount = d
	}
	if v, ok := snap.Metadata[MetadataKeyMerchantAmount]; ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("payment: invalid merchant amount in snapshot: %w", err)
		}
		breakdown.MerchantAmount = d
	}
	return breakdown, nil
}

// Metadata keys the checkout flow stamps on the processor intent; the
// processor echoes them back in its responses, which is what makes the
// on-read breakdown possible.
const (
	MetadataKeyOrderID           = "order_id"
	MetadataKeyOrderNumber       = "order_number"
	MetadataKeyPlatformFeeAmount = "platform_fee_amount"
	MetadataKeyMerchantAmount    = "merchant_amount"
	MetadataKeyPaymentFlow       = "payment_flow"
	MetadataKeyMerchantCountry   = "merchant_country"
)

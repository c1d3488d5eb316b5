package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/settlement"
)

// CreatePayoutRequest derives a payout from a paid order.
// Method, when set, overrides the company's payout channel.
type CreatePayoutRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Method  string    `json:"method" binding:"omitempty,oneof=stripe manual"`
}

// FailPayoutRequest records a payout failure
type FailPayoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CompletePayoutRequest completes a payout; the manual fields apply only to
// manual payouts
type CompletePayoutRequest struct {
	ManualReference string `json:"manual_reference"`
	ManualNotes     string `json:"manual_notes"`
}

// PayoutResponse represents a seller payout in API responses
type PayoutResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	OrderID            uuid.UUID       `json:"order_id"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	PlatformFee        decimal.Decimal `json:"platform_fee"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	Currency           string          `json:"currency"`
	PlatformFeePercent decimal.Decimal `json:"platform_fee_percent"`
	Method             string          `json:"method"`
	Status             string          `json:"status"`
	StripeTransferID   string          `json:"stripe_transfer_id,omitempty"`
	ManualReference    string          `json:"manual_reference,omitempty"`
	ManualNotes        string          `json:"manual_notes,omitempty"`
	FailureReason      string          `json:"failure_reason,omitempty"`
	ProcessedAt        *time.Time      `json:"processed_at,omitempty"`
	FailedAt           *time.Time      `json:"failed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// CreatePayoutResponse reports the created (or pre-existing) payout
type CreatePayoutResponse struct {
	Payout         PayoutResponse `json:"payout"`
	AlreadyExisted bool           `json:"already_existed"`
}

// CompanyEarningsResponse summarizes what a company has earned by payout
// status
type CompanyEarningsResponse struct {
	CompanyID uuid.UUID       `json:"company_id"`
	Pending   decimal.Decimal `json:"pending"`
	Completed decimal.Decimal `json:"completed"`
	Failed    decimal.Decimal `json:"failed"`
}

// ToPayoutResponse converts a domain payout to its response DTO
func ToPayoutResponse(payout *settlement.SellerPayout) PayoutResponse {
	return PayoutResponse{
		ID:                 payout.ID,
		CompanyID:          payout.CompanyID,
		OrderID:            payout.OrderID,
		GrossAmount:        payout.GrossAmount,
		PlatformFee:        payout.PlatformFee,
		NetAmount:          payout.NetAmount,
		Currency:           string(payout.Currency),
		PlatformFeePercent: payout.PlatformFeePercent,
		Method:             string(payout.Method),
		Status:             string(payout.Status),
		StripeTransferID:   payout.StripeTransferID,
		ManualReference:    payout.ManualReference,
		ManualNotes:        payout.ManualNotes,
		FailureReason:      payout.FailureReason,
		ProcessedAt:        payout.ProcessedAt,
		FailedAt:           payout.FailedAt,
		CreatedAt:          payout.CreatedAt,
		UpdatedAt:          payout.UpdatedAt,
		Version:            payout.Version,
	}
}

// ToPayoutResponses converts a slice of domain payouts to response DTOs
func ToPayoutResponses(payouts []settlement.SellerPayout) []PayoutResponse {
	responses := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = ToPayoutResponse(&payouts[i])
	}
	return responses
}

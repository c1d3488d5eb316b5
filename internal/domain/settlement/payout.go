package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// PayoutMethod represents how a seller payout is transferred
type PayoutMethod string

const (
	// PayoutMethodStripe transfers through the payment processor
	PayoutMethodStripe PayoutMethod = "stripe"
	// PayoutMethodManual records an out-of-band bank transfer
	PayoutMethodManual PayoutMethod = "manual"
)

// IsValid checks if the method is a valid PayoutMethod
func (m PayoutMethod) IsValid() bool {
	return m == PayoutMethodStripe || m == PayoutMethodManual
}

// String returns the string representation of PayoutMethod
func (m PayoutMethod) String() string {
	return string(m)
}

// PayoutStatus represents the lifecycle status of a seller payout
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusProcessing, PayoutStatusCompleted, PayoutStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The only re-entry edge is failed -> pending (explicit retry); completed is
// terminal.
func (s PayoutStatus) CanTransitionTo(target PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return target == PayoutStatusProcessing || target == PayoutStatusFailed
	case PayoutStatusProcessing:
		return target == PayoutStatusCompleted || target == PayoutStatusFailed
	case PayoutStatusFailed:
		return target == PayoutStatusPending
	case PayoutStatusCompleted:
		return false
	}
	return false
}

// SellerPayout is the amount owed to a seller company for one paid order.
// There is exactly one payout per order; the order reference is the
// idempotency anchor, enforced by a unique index rather than application
// checks. Under the additive fee model gross equals net: the platform fee is
// retained separately and never subtracted from the seller's share.
type SellerPayout struct {
	shared.BaseAggregateRoot
	CompanyID          uuid.UUID
	OrderID            uuid.UUID
	GrossAmount        decimal.Decimal
	PlatformFee        decimal.Decimal
	NetAmount          decimal.Decimal
	Currency           valueobject.Currency
	PlatformFeePercent decimal.Decimal // frozen at creation time
	Method             PayoutMethod
	Status             PayoutStatus
	StripeTransferID   string
	ManualReference    string
	ManualNotes        string
	FailureReason      string
	ProcessedAt        *time.Time
	FailedAt           *time.Time
}

// NewSellerPayoutFromOrder derives the payout owed for a paid order by
// splitting the order total under the additive fee model.
func NewSellerPayoutFromOrder(order *Order, feePercent decimal.Decimal, method PayoutMethod) (*SellerPayout, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if !order.IsPaid() {
		return nil, shared.NewDomainError("ORDER_NOT_PAID", "Payout can only be derived from a paid order")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYOUT_METHOD", "Unknown payout method")
	}

	base, fee, err := SplitAdditive(order.TotalMoney(), feePercent)
	if err != nil {
		return nil, err
	}

	payout := &SellerPayout{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		CompanyID:          order.SellerCompanyID,
		OrderID:            order.ID,
		GrossAmount:        base.Amount(),
		PlatformFee:        fee.Amount(),
		NetAmount:          base.Amount(),
		Currency:           order.Currency,
		PlatformFeePercent: feePercent,
		Method:             method,
		Status:             PayoutStatusPending,
	}
	if err := payout.checkReconciliation(order.TotalAmount); err != nil {
		return nil, err
	}
	payout.AddDomainEvent(NewPayoutCreatedEvent(payout))
	return payout, nil
}

// checkReconciliation verifies gross + fee == order total at two places
func (p *SellerPayout) checkReconciliation(orderTotal decimal.Decimal) error {
	sum := p.GrossAmount.Add(p.PlatformFee).RoundBank(2)
	if !sum.Equal(orderTotal.RoundBank(2)) {
		return ErrAmountInvariant
	}
	return nil
}

// MarkProcessing moves the payout into the processing state
func (p *SellerPayout) MarkProcessing() error {
	if !p.Status.CanTransitionTo(PayoutStatusProcessing) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Payout cannot move from "+p.Status.String()+" to processing")
	}
	p.Status = PayoutStatusProcessing
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted finishes the payout. Completing clears any previous failure
// fields; completed is terminal.
func (p *SellerPayout) MarkCompleted(processedAt *time.Time) error {
	if !p.Status.CanTransitionTo(PayoutStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Payout cannot move from "+p.Status.String()+" to completed")
	}
	now := time.Now()
	if processedAt == nil {
		processedAt = &now
	}
	p.Status = PayoutStatusCompleted
	p.ProcessedAt = processedAt
	p.FailedAt = nil
	p.FailureReason = ""
	p.UpdatedAt = now
	p.AddDomainEvent(NewPayoutCompletedEvent(p))
	return nil
}

// MarkFailed records a payout failure with its reason
func (p *SellerPayout) MarkFailed(reason string, failedAt *time.Time) error {
	if !p.Status.CanTransitionTo(PayoutStatusFailed) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Payout cannot move from "+p.Status.String()+" to failed")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_FAILURE_REASON", "Failure reason cannot be empty")
	}
	now := time.Now()
	if failedAt == nil {
		failedAt = &now
	}
	p.Status = PayoutStatusFailed
	p.FailedAt = failedAt
	p.FailureReason = reason
	p.ProcessedAt = nil
	p.UpdatedAt = now
	return nil
}

// Retry re-enters a failed payout into the pending state. This is the only
// way out of failed; nothing retries automatically.
func (p *SellerPayout) Retry() error {
	if !p.Status.CanTransitionTo(PayoutStatusPending) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Only failed payouts can be retried")
	}
	p.Status = PayoutStatusPending
	p.FailedAt = nil
	p.FailureReason = ""
	p.UpdatedAt = time.Now()
	return nil
}

// AttachStripeTransfer records the processor transfer id for a stripe payout
func (p *SellerPayout) AttachStripeTransfer(transferID string) error {
	if p.Method != PayoutMethodStripe {
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Transfer id only applies to stripe payouts")
	}
	if transferID == "" {
		return shared.NewDomainError("INVALID_TRANSFER_ID", "Transfer id cannot be empty")
	}
	p.StripeTransferID = transferID
	p.UpdatedAt = time.Now()
	return nil
}

// AttachManualReference records the out-of-band reference for a manual payout
func (p *SellerPayout) AttachManualReference(reference, notes string) error {
	if p.Method != PayoutMethodManual {
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Manual reference only applies to manual payouts")
	}
	if reference == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Manual reference cannot be empty")
	}
	p.ManualReference = reference
	p.ManualNotes = notes
	p.UpdatedAt = time.Now()
	return nil
}

// GrossMoney returns the gross amount as a Money value object
func (p *SellerPayout) GrossMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.GrossAmount, p.Currency)
	return m
}

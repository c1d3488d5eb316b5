package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Processor Errors
// ---------------------------------------------------------------------------

var (
	// Authorization errors
	ErrProcessorInvalidOrderID     = errors.New("processor: invalid order ID")
	ErrProcessorInvalidOrderNumber = errors.New("processor: invalid order number")
	ErrProcessorInvalidAmount      = errors.New("processor: invalid amount")
	ErrProcessorAmountBelowMinimum = errors.New("processor: amount below processor minimum")
	ErrProcessorInvalidIntentID    = errors.New("processor: invalid intent ID")

	// Transfer errors
	ErrProcessorInvalidTransferDest = errors.New("processor: invalid transfer destination account")
	ErrProcessorInvalidPayoutID     = errors.New("processor: invalid payout ID")

	// Processor communication errors
	ErrProcessorUnavailable     = errors.New("processor: temporarily unavailable")
	ErrProcessorRequestFailed   = errors.New("processor: request failed")
	ErrProcessorInvalidResponse = errors.New("processor: invalid response")
	ErrProcessorInvalidWebhook  = errors.New("processor: invalid webhook signature")
)

// MinimumChargeUSD is the smallest amount the external processor accepts.
// Orders below it must be rejected before any external call is made.
var MinimumChargeUSD = decimal.NewFromFloat(0.50)

// ProcessorError wraps a processor failure with its retryability. Retryable
// failures (network, 5xx) may be resubmitted with the same intent; permanent
// failures (card declined, invalid request) must not be.
type ProcessorError struct {
	Code      string
	Message   string
	Retryable bool
	Err       error
}

// Error implements the error interface
func (e *ProcessorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("processor: %s (%s)", e.Message, e.Code)
	}
	return "processor: " + e.Message
}

// Unwrap returns the underlying error
func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// NewProcessorError creates a new ProcessorError
func NewProcessorError(code, message string, retryable bool, err error) *ProcessorError {
	return &ProcessorError{Code: code, Message: message, Retryable: retryable, Err: err}
}

// IsRetryableProcessorError reports whether err is a processor failure that
// may be retried
func IsRetryableProcessorError(err error) bool {
	var perr *ProcessorError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}

// ---------------------------------------------------------------------------
// IntentStatus
// ---------------------------------------------------------------------------

// IntentStatus is the state of a payment intent at the processor
type IntentStatus string

const (
	IntentStatusRequiresConfirmation IntentStatus = "requires_confirmation"
	IntentStatusProcessing           IntentStatus = "processing"
	IntentStatusSucceeded            IntentStatus = "succeeded"
	IntentStatusFailed               IntentStatus = "failed"
	IntentStatusCanceled             IntentStatus = "canceled"
)

// IsSuccess returns true if the intent has been captured
func (s IntentStatus) IsSuccess() bool {
	return s == IntentStatusSucceeded
}

// IsFinal returns true if the intent is in a terminal state
func (s IntentStatus) IsFinal() bool {
	switch s {
	case IntentStatusSucceeded, IntentStatusFailed, IntentStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of IntentStatus
func (s IntentStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Request/Response DTOs
// ---------------------------------------------------------------------------

// AuthorizationRequest asks the processor to create a payment intent for an
// order total. Metadata is attached verbatim so the captured snapshot carries
// the settlement breakdown.
type AuthorizationRequest struct {
	OrderID     uuid.UUID
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
	BuyerEmail  string
	Description string
	Metadata    map[string]string
}

// Validate validates the authorization request
func (r *AuthorizationRequest) Validate() error {
	if r.OrderID == uuid.Nil {
		return ErrProcessorInvalidOrderID
	}
	if r.OrderNumber == "" {
		return ErrProcessorInvalidOrderNumber
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrProcessorInvalidAmount
	}
	if r.Amount.LessThan(MinimumChargeUSD) {
		return ErrProcessorAmountBelowMinimum
	}
	return nil
}

// Authorization is the processor's handle for an intent awaiting buyer
// confirmation. ClientToken is handed to the buyer's client to complete the
// charge; IntentID is kept server side.
type Authorization struct {
	IntentID    string
	ClientToken string
	Status      IntentStatus
	CreatedAt   time.Time
}

// ConfirmationResult is the processor's answer for a confirmed intent.
// RawResponse is the full processor payload (JSON) and is persisted verbatim
// as the payment snapshot.
type ConfirmationResult struct {
	IntentID       string
	TransactionID  string
	Status         IntentStatus
	Amount         decimal.Decimal
	Currency       string
	FailureMessage string
	RawResponse    string
	ProcessedAt    time.Time
}

// TransferRequest asks the processor to push a payout to a seller's connected
// account
type TransferRequest struct {
	PayoutID           uuid.UUID
	DestinationAccount string
	Amount             decimal.Decimal
	Currency           string
	Description        string
	Metadata           map[string]string
}

// Validate validates the transfer request
func (r *TransferRequest) Validate() error {
	if r.PayoutID == uuid.Nil {
		return ErrProcessorInvalidPayoutID
	}
	if r.DestinationAccount == "" {
		return ErrProcessorInvalidTransferDest
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrProcessorInvalidAmount
	}
	return nil
}

// TransferResult is the processor's record of a completed transfer
type TransferResult struct {
	TransferID  string
	Amount      decimal.Decimal
	Currency    string
	RawResponse string
	CreatedAt   time.Time
}

// WebhookEvent is a verified processor notification
type WebhookEvent struct {
	EventID   string
	EventType string
	IntentID  string
	Payload   []byte
	CreatedAt time.Time
}

// ---------------------------------------------------------------------------
// PaymentProcessor Port
// ---------------------------------------------------------------------------

// PaymentProcessor abstracts the external payment provider. The domain and
// application layers depend only on this interface; the concrete adapter
// lives in the infrastructure layer.
type PaymentProcessor interface {
	// CreateIntent registers a charge for the order total and returns the
	// client token the buyer uses to confirm it
	CreateIntent(ctx context.Context, req *AuthorizationRequest) (*Authorization, error)

	// ConfirmIntent fetches the final state of an intent after the buyer
	// confirmed it client side. It does not mutate processor state.
	ConfirmIntent(ctx context.Context, intentID string) (*ConfirmationResult, error)

	// CreateTransfer pushes funds to a seller's connected account
	CreateTransfer(ctx context.Context, req *TransferRequest) (*TransferResult, error)

	// VerifyWebhook checks the signature of an incoming notification and
	// decodes it
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/transfer"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/tradelink/backend/internal/domain/settlement"
	"go.uber.org/zap"
)

// StripeProcessor implements settlement.PaymentProcessor against the Stripe
// API. Buyer charges go through payment intents; seller payouts go through
// transfers to connected accounts.
type StripeProcessor struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeProcessor creates a new Stripe processor adapter
func NewStripeProcessor(config *StripeConfig, logger *zap.Logger) (*StripeProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeProcessor{
		config: config,
		logger: logger,
	}, nil
}

var _ settlement.PaymentProcessor = (*StripeProcessor)(nil)

// CreateIntent registers a payment intent for the order total
func (p *StripeProcessor) CreateIntent(ctx context.Context, req *settlement.AuthorizationRequest) (*settlement.Authorization, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.logger.Debug("Creating payment intent",
		zap.String("order_id", req.OrderID.String()),
		zap.String("amount", req.Amount.String()))

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx

	if req.BuyerEmail != "" {
		params.ReceiptEmail = stripe.String(req.BuyerEmail)
	}

	params.Metadata = map[string]string{
		"order_id":     req.OrderID.String(),
		"order_number": req.OrderNumber,
	}
	maps.Copy(params.Metadata, req.Metadata)

	pi, err := paymentintent.New(params)
	if err != nil {
		p.logger.Error("Failed to create payment intent",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err))
		return nil, translateStripeError("create intent", err)
	}

	p.logger.Info("Created payment intent",
		zap.String("order_id", req.OrderID.String()),
		zap.String("intent_id", pi.ID))

	return &settlement.Authorization{
		IntentID:    pi.ID,
		ClientToken: pi.ClientSecret,
		Status:      mapIntentStatus(pi.Status),
		CreatedAt:   time.Unix(pi.Created, 0),
	}, nil
}

// ConfirmIntent fetches the final state of an intent after the buyer
// confirmed it client side
func (p *StripeProcessor) ConfirmIntent(ctx context.Context, intentID string) (*settlement.ConfirmationResult, error) {
	if intentID == "" {
		return nil, settlement.ErrProcessorInvalidIntentID
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		p.logger.Error("Failed to fetch payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return nil, translateStripeError("fetch intent", err)
	}

	result := &settlement.ConfirmationResult{
		IntentID:    pi.ID,
		Status:      mapIntentStatus(pi.Status),
		Amount:      decimal.New(pi.Amount, -2),
		Currency:    strings.ToUpper(string(pi.Currency)),
		RawResponse: rawResponse(pi, pi.LastResponse),
		ProcessedAt: time.Now(),
	}
	if pi.LatestCharge != nil {
		result.TransactionID = pi.LatestCharge.ID
	}
	if pi.LastPaymentError != nil {
		result.FailureMessage = pi.LastPaymentError.Msg
	}

	return result, nil
}

// CreateTransfer pushes funds to a seller's connected account
func (p *StripeProcessor) CreateTransfer(ctx context.Context, req *settlement.TransferRequest) (*settlement.TransferResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.logger.Debug("Creating transfer",
		zap.String("payout_id", req.PayoutID.String()),
		zap.String("destination", req.DestinationAccount),
		zap.String("amount", req.Amount.String()))

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Destination: stripe.String(req.DestinationAccount),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx

	params.Metadata = map[string]string{
		"payout_id": req.PayoutID.String(),
	}
	maps.Copy(params.Metadata, req.Metadata)

	tr, err := transfer.New(params)
	if err != nil {
		p.logger.Error("Failed to create transfer",
			zap.String("payout_id", req.PayoutID.String()),
			zap.Error(err))
		return nil, translateStripeError("create transfer", err)
	}

	p.logger.Info("Created transfer",
		zap.String("payout_id", req.PayoutID.String()),
		zap.String("transfer_id", tr.ID))

	return &settlement.TransferResult{
		TransferID:  tr.ID,
		Amount:      decimal.New(tr.Amount, -2),
		Currency:    strings.ToUpper(string(tr.Currency)),
		RawResponse: rawResponse(tr, tr.LastResponse),
		CreatedAt:   time.Unix(tr.Created, 0),
	}, nil
}

// VerifyWebhook checks the signature of an incoming notification and decodes it
func (p *StripeProcessor) VerifyWebhook(payload []byte, signature string) (*settlement.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", settlement.ErrProcessorInvalidWebhook, err)
	}

	we := &settlement.WebhookEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		Payload:   event.Data.Raw,
		CreatedAt: time.Unix(event.Created, 0),
	}

	if strings.HasPrefix(string(event.Type), "payment_intent.") {
		if id, ok := event.Data.Object["id"].(string); ok {
			we.IntentID = id
		}
	}

	return we, nil
}

// toMinorUnits converts a decimal dollar amount to integer cents
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// mapIntentStatus maps Stripe intent statuses onto the domain lifecycle. An
// intent bounced back to requires_payment_method means the charge attempt
// failed and the buyer must start over.
func mapIntentStatus(status stripe.PaymentIntentStatus) settlement.IntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return settlement.IntentStatusSucceeded
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusRequiresCapture:
		return settlement.IntentStatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return settlement.IntentStatusCanceled
	case stripe.PaymentIntentStatusRequiresConfirmation, stripe.PaymentIntentStatusRequiresAction:
		return settlement.IntentStatusRequiresConfirmation
	default:
		return settlement.IntentStatusFailed
	}
}

// rawResponse returns the raw processor payload for the payment snapshot
func rawResponse(v interface{}, res *stripe.APIResponse) string {
	if res != nil && len(res.RawJSON) > 0 {
		return string(res.RawJSON)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// translateStripeError wraps a Stripe failure with its retryability. Server
// side failures may be resubmitted with the same intent; request failures
// (declined card, invalid params) must not be.
func translateStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		retryable := stripeErr.HTTPStatusCode >= 500 || stripeErr.Type == stripe.ErrorTypeAPI
		sentinel := settlement.ErrProcessorRequestFailed
		if retryable {
			sentinel = settlement.ErrProcessorUnavailable
		}
		return settlement.NewProcessorError(string(stripeErr.Code), stripeErr.Msg, retryable,
			fmt.Errorf("%w: %s", sentinel, op))
	}
	return settlement.NewProcessorError("", err.Error(), true,
		fmt.Errorf("%w: %s: %v", settlement.ErrProcessorUnavailable, op, err))
}

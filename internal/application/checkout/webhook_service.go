package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	// ErrWebhookVerificationFailed is returned when the signature check fails
	ErrWebhookVerificationFailed = errors.New("webhook: signature verification failed")
	// ErrWebhookInvalidPayload is returned when the event payload is unusable
	ErrWebhookInvalidPayload = errors.New("webhook: invalid payload")
)

// WebhookResult reports the outcome of processing one processor notification
type WebhookResult struct {
	EventID          string `json:"event_id"`
	EventType        string `json:"event_type"`
	Handled          bool   `json:"handled"`
	AlreadyProcessed bool   `json:"already_processed"`
}

// WebhookService converts verified processor notifications into payment
// confirmations. The webhook path and the client confirmation path converge
// on the same ConfirmPayment, so either can arrive first or twice.
type WebhookService struct {
	processor        settlement.PaymentProcessor
	checkoutService  *CheckoutService
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	logger           *zap.Logger
}

// WebhookServiceConfig holds the dependencies for WebhookService
type WebhookServiceConfig struct {
	Processor        settlement.PaymentProcessor
	CheckoutService  *CheckoutService
	IdempotencyStore shared.IdempotencyStore
	Idempotency      shared.IdempotencyConfig
	Logger           *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(config WebhookServiceConfig) *WebhookService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := config.Idempotency
	if cfg.TTL == 0 {
		cfg = shared.DefaultIdempotencyConfig()
	}
	return &WebhookService{
		processor:        config.Processor,
		checkoutService:  config.CheckoutService,
		idempotencyStore: config.IdempotencyStore,
		idempotencyCfg:   cfg,
		logger:           logger,
	}
}

// intentPayload is the subset of the event payload the webhook needs
type intentPayload struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ProcessEvent verifies and processes one raw webhook delivery
func (s *WebhookService) ProcessEvent(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("Webhook verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrWebhookVerificationFailed, err)
	}

	// processors redeliver events; the event id is the dedup key
	if s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		fresh, err := s.idempotencyStore.MarkProcessed(ctx, "stripe:"+event.EventID, s.idempotencyCfg.TTL)
		if err != nil {
			s.logger.Warn("Idempotency store unavailable, processing anyway",
				zap.String("event_id", event.EventID),
				zap.Error(err))
		} else if !fresh {
			s.logger.Info("Webhook event already processed",
				zap.String("event_id", event.EventID))
			return &WebhookResult{
				EventID:          event.EventID,
				EventType:        event.EventType,
				AlreadyProcessed: true,
			}, nil
		}
	}

	result := &WebhookResult{EventID: event.EventID, EventType: event.EventType}

	switch event.EventType {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		if err := s.confirmFromEvent(ctx, event); err != nil {
			return nil, err
		}
		result.Handled = true
	default:
		s.logger.Debug("Ignoring webhook event type",
			zap.String("event_type", event.EventType))
	}
	return result, nil
}

// confirmFromEvent extracts the order reference from the intent metadata and
// funnels it into the shared confirmation path
func (s *WebhookService) confirmFromEvent(ctx context.Context, event *settlement.WebhookEvent) error {
	var intent intentPayload
	if err := json.Unmarshal(event.Payload, &intent); err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookInvalidPayload, err)
	}
	if intent.ID == "" {
		return ErrWebhookInvalidPayload
	}

	orderIDStr := intent.Metadata[settlement.MetadataKeyOrderID]
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return fmt.Errorf("%w: missing or invalid order id in metadata", ErrWebhookInvalidPayload)
	}

	confirmation, err := s.checkoutService.ConfirmPayment(ctx, &ConfirmPaymentRequest{
		IntentID: intent.ID,
		OrderID:  orderID,
	})
	if err != nil {
		return err
	}

	s.logger.Info("Webhook confirmation processed",
		zap.String("event_id", event.EventID),
		zap.String("order_id", orderID.String()),
		zap.Bool("success", confirmation.Success),
		zap.Bool("already_processed", confirmation.AlreadyProcessed))
	return nil
}

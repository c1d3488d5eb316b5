package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

// maxWebhookPayloadSize caps webhook bodies. Stripe events are small; anything
// larger is rejected before signature verification.
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler receives asynchronous payment notifications from Stripe
type StripeWebhookHandler struct {
	BaseHandler
	webhookService *checkoutapp.WebhookService
	logger         *zap.Logger
}

// NewStripeWebhookHandler creates a new stripe webhook handler
func NewStripeWebhookHandler(webhookService *checkoutapp.WebhookService, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// HandleWebhook godoc
// @Summary Receive a Stripe webhook event
// @Description Verifies the event signature and applies payment outcomes to orders. Duplicate deliveries are acknowledged without reprocessing.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse[checkoutapp.WebhookResult]
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Router /webhooks/stripe [post]
func (h *StripeWebhookHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, dto.ErrCodeRequestTooLarge, "webhook payload exceeds size limit")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, dto.ErrCodeWebhookSignature, "missing Stripe-Signature header")
		return
	}

	result, err := h.webhookService.ProcessEvent(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, checkoutapp.ErrWebhookVerificationFailed) {
			h.Error(c, dto.ErrCodeWebhookSignature, "webhook signature verification failed")
			return
		}
		// Stripe retries non-2xx responses. Processing failures are logged and
		// acknowledged so a poison event cannot block the delivery queue.
		h.logger.Error("webhook processing failed",
			zap.String("request_id", h.getRequestID(c)),
			zap.Error(err))
		h.Success(c, gin.H{"received": true})
		return
	}

	h.Success(c, result)
}

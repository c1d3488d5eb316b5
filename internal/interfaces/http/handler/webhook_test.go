package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/infrastructure/cache"
)

func newWebhookEngine(processor *MockPaymentProcessor) *gin.Engine {
	checkoutService := checkoutapp.NewCheckoutService(checkoutapp.CheckoutServiceConfig{
		OrderRepo:   new(MockOrderRepository),
		PaymentRepo: new(MockPaymentRepository),
		CompanyRepo: new(MockCompanyRepository),
		Processor:   processor,
	})
	webhookService := checkoutapp.NewWebhookService(checkoutapp.WebhookServiceConfig{
		Processor:        processor,
		CheckoutService:  checkoutService,
		IdempotencyStore: cache.NewInMemoryIdempotencyStore(),
	})
	engine := gin.New()
	handler := NewStripeWebhookHandler(webhookService, zap.NewNop())
	engine.POST("/webhooks/stripe", handler.HandleWebhook)
	return engine
}

func TestStripeWebhookHandler(t *testing.T) {
	t.Run("401 without a signature header", func(t *testing.T) {
		engine := newWebhookEngine(new(MockPaymentProcessor))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_WEBHOOK_SIGNATURE")
	})

	t.Run("401 when signature verification fails", func(t *testing.T) {
		processor := new(MockPaymentProcessor)
		processor.On("VerifyWebhook", mock.Anything, "t=1,v1=bad").
			Return(nil, checkoutapp.ErrWebhookVerificationFailed)

		engine := newWebhookEngine(processor)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=bad")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("413 for an oversized payload", func(t *testing.T) {
		engine := newWebhookEngine(new(MockPaymentProcessor))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe",
			strings.NewReader(strings.Repeat("a", maxWebhookPayloadSize+1)))
		req.Header.Set("Stripe-Signature", "t=1,v1=sig")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("ignores unhandled event types with 200", func(t *testing.T) {
		processor := new(MockPaymentProcessor)
		processor.On("VerifyWebhook", mock.Anything, "t=1,v1=sig").
			Return(&settlement.WebhookEvent{
				EventID:   "evt_1",
				EventType: "charge.refund.updated",
				Payload:   []byte(`{}`),
			}, nil)

		engine := newWebhookEngine(processor)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=sig")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"handled":false`)
	})
}

package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/tradelink/backend/internal/domain/settlement"
	"go.uber.org/zap"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

// setupMockBackend sets up a mock Stripe backend for testing
func setupMockBackend(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) func() {
	mock := &mockBackend{handler: handler}
	stripe.SetBackend(stripe.APIBackend, mock)
	return func() {
		stripe.SetBackend(stripe.APIBackend, nil)
	}
}

// testStripeConfig returns a valid test configuration
func testStripeConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:     "sk_test_123456789",
		WebhookSecret: "whsec_test_123456789",
		IsTestMode:    true,
	}
}

func newTestProcessor(t *testing.T) *StripeProcessor {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)
	return processor
}

func authorizationRequest() *settlement.AuthorizationRequest {
	return &settlement.AuthorizationRequest{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20260115-0001",
		Amount:      decimal.RequireFromString("107.90"),
		Currency:    "USD",
		BuyerEmail:  "dana@example.com",
		Description: "Order ORD-20260115-0001",
	}
}

func TestNewStripeProcessor(t *testing.T) {
	t.Run("creates processor with valid config", func(t *testing.T) {
		processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())

		require.NoError(t, err)
		assert.NotNil(t, processor)
	})

	t.Run("rejects missing secret key", func(t *testing.T) {
		processor, err := NewStripeProcessor(&StripeConfig{IsTestMode: true}, zap.NewNop())

		assert.Error(t, err)
		assert.Nil(t, processor)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("rejects live key in test mode", func(t *testing.T) {
		processor, err := NewStripeProcessor(&StripeConfig{
			SecretKey:  "sk_live_123456789",
			IsTestMode: true,
		}, zap.NewNop())

		assert.Error(t, err)
		assert.Nil(t, processor)
	})
}

func TestStripeProcessor_CreateIntent(t *testing.T) {
	t.Run("creates intent in minor units", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if method == "POST" && path == "/v1/payment_intents" {
				piParams, ok := params.(*stripe.PaymentIntentParams)
				require.True(t, ok)
				assert.Equal(t, int64(10790), *piParams.Amount)
				assert.Equal(t, "usd", *piParams.Currency)
				return json.Marshal(&stripe.PaymentIntent{
					ID:           "pi_test123",
					ClientSecret: "pi_test123_secret_abc",
					Status:       stripe.PaymentIntentStatusRequiresConfirmation,
					Created:      time.Now().Unix(),
				})
			}
			return nil, fmt.Errorf("unexpected call: %s %s", method, path)
		})
		defer cleanup()

		auth, err := processor.CreateIntent(context.Background(), authorizationRequest())

		require.NoError(t, err)
		assert.Equal(t, "pi_test123", auth.IntentID)
		assert.Equal(t, "pi_test123_secret_abc", auth.ClientToken)
		assert.Equal(t, settlement.IntentStatusRequiresConfirmation, auth.Status)
	})

	t.Run("rejects amount below processor minimum before calling out", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			t.Fatal("no external call expected")
			return nil, nil
		})
		defer cleanup()

		req := authorizationRequest()
		req.Amount = decimal.RequireFromString("0.49")

		auth, err := processor.CreateIntent(context.Background(), req)

		assert.ErrorIs(t, err, settlement.ErrProcessorAmountBelowMinimum)
		assert.Nil(t, auth)
	})

	t.Run("wraps card decline as permanent failure", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return nil, &stripe.Error{
				Code:           stripe.ErrorCodeCardDeclined,
				Msg:            "Your card was declined",
				HTTPStatusCode: 402,
			}
		})
		defer cleanup()

		auth, err := processor.CreateIntent(context.Background(), authorizationRequest())

		assert.Nil(t, auth)
		assert.ErrorIs(t, err, settlement.ErrProcessorRequestFailed)
		assert.False(t, settlement.IsRetryableProcessorError(err))
	})

	t.Run("wraps server errors as retryable", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return nil, &stripe.Error{
				Msg:            "An unknown error occurred",
				HTTPStatusCode: 503,
			}
		})
		defer cleanup()

		auth, err := processor.CreateIntent(context.Background(), authorizationRequest())

		assert.Nil(t, auth)
		assert.ErrorIs(t, err, settlement.ErrProcessorUnavailable)
		assert.True(t, settlement.IsRetryableProcessorError(err))
	})
}

func TestStripeProcessor_ConfirmIntent(t *testing.T) {
	t.Run("returns captured charge for succeeded intent", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if method == "GET" && path == "/v1/payment_intents/pi_test123" {
				return json.Marshal(&stripe.PaymentIntent{
					ID:           "pi_test123",
					Status:       stripe.PaymentIntentStatusSucceeded,
					Amount:       10790,
					Currency:     "usd",
					LatestCharge: &stripe.Charge{ID: "ch_test456"},
				})
			}
			return nil, fmt.Errorf("unexpected call: %s %s", method, path)
		})
		defer cleanup()

		result, err := processor.ConfirmIntent(context.Background(), "pi_test123")

		require.NoError(t, err)
		assert.Equal(t, settlement.IntentStatusSucceeded, result.Status)
		assert.True(t, result.Status.IsSuccess())
		assert.Equal(t, "ch_test456", result.TransactionID)
		assert.True(t, result.Amount.Equal(decimal.RequireFromString("107.90")))
		assert.Equal(t, "USD", result.Currency)
		assert.NotEmpty(t, result.RawResponse)
	})

	t.Run("maps bounced intent to failed with reason", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return json.Marshal(&stripe.PaymentIntent{
				ID:       "pi_test123",
				Status:   stripe.PaymentIntentStatusRequiresPaymentMethod,
				Amount:   10790,
				Currency: "usd",
				LastPaymentError: &stripe.Error{
					Msg: "Your card has insufficient funds",
				},
			})
		})
		defer cleanup()

		result, err := processor.ConfirmIntent(context.Background(), "pi_test123")

		require.NoError(t, err)
		assert.Equal(t, settlement.IntentStatusFailed, result.Status)
		assert.Equal(t, "Your card has insufficient funds", result.FailureMessage)
	})

	t.Run("rejects empty intent id", func(t *testing.T) {
		processor := newTestProcessor(t)

		result, err := processor.ConfirmIntent(context.Background(), "")

		assert.ErrorIs(t, err, settlement.ErrProcessorInvalidIntentID)
		assert.Nil(t, result)
	})
}

func TestStripeProcessor_CreateTransfer(t *testing.T) {
	t.Run("transfers net amount to connected account", func(t *testing.T) {
		processor := newTestProcessor(t)

		cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if method == "POST" && path == "/v1/transfers" {
				trParams, ok := params.(*stripe.TransferParams)
				require.True(t, ok)
				assert.Equal(t, int64(10000), *trParams.Amount)
				assert.Equal(t, "acct_apex", *trParams.Destination)
				return json.Marshal(&stripe.Transfer{
					ID:       "tr_test789",
					Amount:   10000,
					Currency: "usd",
					Created:  time.Now().Unix(),
				})
			}
			return nil, fmt.Errorf("unexpected call: %s %s", method, path)
		})
		defer cleanup()

		result, err := processor.CreateTransfer(context.Background(), &settlement.TransferRequest{
			PayoutID:           uuid.New(),
			DestinationAccount: "acct_apex",
			Amount:             decimal.RequireFromString("100.00"),
			Currency:           "USD",
			Description:        "Payout for ORD-20260115-0001",
		})

		require.NoError(t, err)
		assert.Equal(t, "tr_test789", result.TransferID)
		assert.True(t, result.Amount.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("rejects missing destination before calling out", func(t *testing.T) {
		processor := newTestProcessor(t)

		result, err := processor.CreateTransfer(context.Background(), &settlement.TransferRequest{
			PayoutID: uuid.New(),
			Amount:   decimal.RequireFromString("100.00"),
			Currency: "USD",
		})

		assert.ErrorIs(t, err, settlement.ErrProcessorInvalidTransferDest)
		assert.Nil(t, result)
	})
}

// signWebhookPayload produces a Stripe-Signature header value for a payload
func signWebhookPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeProcessor_VerifyWebhook(t *testing.T) {
	payload := []byte(`{
		"id": "evt_test123",
		"type": "payment_intent.succeeded",
		"created": 1760000000,
		"data": {"object": {"id": "pi_test123", "object": "payment_intent"}}
	}`)

	t.Run("accepts correctly signed payload", func(t *testing.T) {
		processor := newTestProcessor(t)

		signature := signWebhookPayload(payload, testStripeConfig().WebhookSecret, time.Now())

		event, err := processor.VerifyWebhook(payload, signature)

		require.NoError(t, err)
		assert.Equal(t, "evt_test123", event.EventID)
		assert.Equal(t, "payment_intent.succeeded", event.EventType)
		assert.Equal(t, "pi_test123", event.IntentID)
	})

	t.Run("rejects payload signed with wrong secret", func(t *testing.T) {
		processor := newTestProcessor(t)

		signature := signWebhookPayload(payload, "whsec_wrong", time.Now())

		event, err := processor.VerifyWebhook(payload, signature)

		assert.ErrorIs(t, err, settlement.ErrProcessorInvalidWebhook)
		assert.Nil(t, event)
	})

	t.Run("rejects stale timestamp", func(t *testing.T) {
		processor := newTestProcessor(t)

		signature := signWebhookPayload(payload, testStripeConfig().WebhookSecret, time.Now().Add(-time.Hour))

		event, err := processor.VerifyWebhook(payload, signature)

		assert.ErrorIs(t, err, settlement.ErrProcessorInvalidWebhook)
		assert.Nil(t, event)
	})
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		expected int64
	}{
		{"107.90", 10790},
		{"0.50", 50},
		{"100.00", 10000},
		{"19.995", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, toMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

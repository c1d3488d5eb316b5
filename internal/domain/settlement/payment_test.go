package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	order := pricedOrder(t)

	t.Run("snapshots the order total", func(t *testing.T) {
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusCompleted, "pi_123", "{}", time.Now())
		require.NoError(t, err)

		assert.Equal(t, order.ID, payment.OrderID)
		assert.True(t, payment.Amount.Equal(order.TotalAmount))
		assert.Equal(t, order.Currency, payment.Currency)
		assert.Equal(t, PaymentRecordStatusCompleted, payment.Status)
		assert.Equal(t, "pi_123", payment.TransactionID)
		require.NotNil(t, payment.ProcessedAt)
	})

	t.Run("rejects nil order", func(t *testing.T) {
		_, err := NewPayment(nil, "stripe", PaymentRecordStatusCompleted, "pi_123", "{}", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewPayment(order, "stripe", PaymentRecordStatus("settled"), "pi_123", "{}", time.Now())
		assert.Error(t, err)
	})
}

func TestPaymentBreakdown(t *testing.T) {
	order := pricedOrder(t)

	t.Run("derives amounts from metadata snapshot", func(t *testing.T) {
		snapshot := `{
			"id": "pi_123",
			"status": "succeeded",
			"metadata": {
				"order_id": "` + order.ID.String() + `",
				"platform_fee_amount": "7.90",
				"merchant_amount": "100.00",
				"payment_flow": "destination_charge",
				"merchant_country": "US"
			}
		}`
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusCompleted, "pi_123", snapshot, time.Now())
		require.NoError(t, err)

		breakdown, err := payment.Breakdown()
		require.NoError(t, err)
		assert.True(t, breakdown.PlatformFeeAmount.Equal(decimal.NewFromFloat(7.90)))
		assert.True(t, breakdown.MerchantAmount.Equal(decimal.NewFromFloat(100.00)))
		assert.Equal(t, "destination_charge", breakdown.PaymentFlow)
		assert.Equal(t, "US", breakdown.MerchantCountry)
	})

	t.Run("missing metadata defaults to zero", func(t *testing.T) {
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusCompleted, "pi_123", `{"id":"pi_123"}`, time.Now())
		require.NoError(t, err)

		breakdown, err := payment.Breakdown()
		require.NoError(t, err)
		assert.True(t, breakdown.PlatformFeeAmount.IsZero())
		assert.True(t, breakdown.MerchantAmount.IsZero())
		assert.Empty(t, breakdown.PaymentFlow)
	})

	t.Run("empty snapshot defaults to zero", func(t *testing.T) {
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusFailed, "", "", time.Now())
		require.NoError(t, err)

		breakdown, err := payment.Breakdown()
		require.NoError(t, err)
		assert.True(t, breakdown.PlatformFeeAmount.IsZero())
	})

	t.Run("malformed snapshot is an error", func(t *testing.T) {
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusCompleted, "pi_123", `{not json`, time.Now())
		require.NoError(t, err)

		_, err = payment.Breakdown()
		assert.Error(t, err)
	})

	t.Run("invalid amount string is an error", func(t *testing.T) {
		payment, err := NewPayment(order, "stripe", PaymentRecordStatusCompleted, "pi_123",
			`{"metadata":{"platform_fee_amount":"seven"}}`, time.Now())
		require.NoError(t, err)

		_, err = payment.Breakdown()
		assert.Error(t, err)
	})
}

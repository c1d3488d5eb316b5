package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	payoutapp "github.com/tradelink/backend/internal/application/payout"
	"github.com/tradelink/backend/internal/domain/partner"
	domainsettlement "github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
)

type stubOrderRepo struct {
	domainsettlement.OrderRepository
	saved *domainsettlement.Order
}

func (r *stubOrderRepo) GenerateOrderNumber(ctx context.Context) (string, error) {
	return "ORD-20260829-0042", nil
}

func (r *stubOrderRepo) Save(ctx context.Context, order *domainsettlement.Order) error {
	r.saved = order
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domainsettlement.Order, error) {
	if r.saved != nil && r.saved.ID == id {
		return r.saved, nil
	}
	return nil, shared.ErrNotFound
}

type stubCompanyRepo struct {
	partner.CompanyRepository
	company *partner.Company
}

func (r *stubCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	if r.company != nil && r.company.ID == id {
		return r.company, nil
	}
	return nil, shared.ErrNotFound
}

type stubProcessor struct {
	domainsettlement.PaymentProcessor
	mock.Mock
}

func (p *stubProcessor) CreateIntent(ctx context.Context, req *domainsettlement.AuthorizationRequest) (*domainsettlement.Authorization, error) {
	args := p.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsettlement.Authorization), args.Error(1)
}

type stubPayoutRepo struct {
	domainsettlement.PayoutRepository
	created *domainsettlement.SellerPayout
}

func (r *stubPayoutRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domainsettlement.SellerPayout, error) {
	if r.created != nil && r.created.OrderID == orderID {
		return r.created, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubPayoutRepo) Create(ctx context.Context, payout *domainsettlement.SellerPayout) error {
	if r.created != nil {
		return shared.ErrAlreadyExists
	}
	r.created = payout
	return nil
}

func coordinatorFixture(t *testing.T) (*Coordinator, *stubOrderRepo, *stubPayoutRepo, *stubProcessor, uuid.UUID) {
	t.Helper()
	sellerID := uuid.New()
	company, err := partner.NewCompany("Apex Machining", "US", "ops@apexmachining.com")
	require.NoError(t, err)
	company.ID = sellerID
	company.StripeAccountID = "acct_apex"

	orderRepo := &stubOrderRepo{}
	payoutRepo := &stubPayoutRepo{}
	processor := &stubProcessor{}
	companyRepo := &stubCompanyRepo{company: company}
	feePercent := decimal.NewFromFloat(7.9)

	checkoutService := checkoutapp.NewCheckoutService(checkoutapp.CheckoutServiceConfig{
		OrderRepo:   orderRepo,
		CompanyRepo: companyRepo,
		Processor:   processor,
		FeePercent:  feePercent,
	})
	payoutService := payoutapp.NewPayoutService(payoutapp.PayoutServiceConfig{
		PayoutRepo:  payoutRepo,
		OrderRepo:   orderRepo,
		CompanyRepo: companyRepo,
		Processor:   processor,
		FeePercent:  feePercent,
	})
	return NewCoordinator(checkoutService, payoutService, nil), orderRepo, payoutRepo, processor, sellerID
}

func checkoutRequest(sellerID uuid.UUID) *CompleteCheckoutRequest {
	return &CompleteCheckoutRequest{
		CreateOrderRequest: checkoutapp.CreateOrderRequest{
			Items: []checkoutapp.CartItemInput{{
				ProductID:       uuid.New(),
				ProductName:     "Anodized bracket",
				SellerCompanyID: sellerID,
				Quantity:        decimal.NewFromInt(10),
				UnitPrice:       decimal.NewFromFloat(10.00),
			}},
			Buyer: checkoutapp.BuyerInput{
				Name:            "Dana Reeves",
				Email:           "dana@example.com",
				ShippingAddress: "12 Dock St",
				BillingAddress:  "12 Dock St",
			},
		},
	}
}

func TestCoordinator_CompleteCheckout(t *testing.T) {
	t.Run("creates order and requests authorization in one call", func(t *testing.T) {
		coordinator, orderRepo, _, processor, sellerID := coordinatorFixture(t)

		processor.On("CreateIntent", mock.Anything, mock.Anything).
			Return(&domainsettlement.Authorization{
				IntentID:    "pi_123",
				ClientToken: "pi_123_secret",
				Status:      domainsettlement.IntentStatusRequiresConfirmation,
			}, nil)

		resp, err := coordinator.CompleteCheckout(context.Background(), checkoutRequest(sellerID))

		require.NoError(t, err)
		assert.Equal(t, "pi_123", resp.Authorization.IntentID)
		assert.True(t, resp.Order.TotalAmount.Equal(decimal.NewFromFloat(107.90)))
		require.NotNil(t, orderRepo.saved)
		assert.Equal(t, resp.Order.ID, orderRepo.saved.ID)
	})

	t.Run("authorization failure leaves the pending order in place", func(t *testing.T) {
		coordinator, orderRepo, _, processor, sellerID := coordinatorFixture(t)

		processor.On("CreateIntent", mock.Anything, mock.Anything).
			Return(nil, domainsettlement.ErrProcessorUnavailable)

		_, err := coordinator.CompleteCheckout(context.Background(), checkoutRequest(sellerID))

		assert.ErrorIs(t, err, domainsettlement.ErrProcessorUnavailable)
		require.NotNil(t, orderRepo.saved)
		assert.Equal(t, domainsettlement.PaymentStatusPending, orderRepo.saved.PaymentStatus)
	})
}

func TestCoordinator_SettleOrder(t *testing.T) {
	t.Run("repeat settlement returns the same payout", func(t *testing.T) {
		coordinator, orderRepo, payoutRepo, processor, sellerID := coordinatorFixture(t)

		processor.On("CreateIntent", mock.Anything, mock.Anything).
			Return(&domainsettlement.Authorization{
				IntentID:    "pi_123",
				ClientToken: "pi_123_secret",
				Status:      domainsettlement.IntentStatusRequiresConfirmation,
			}, nil)

		resp, err := coordinator.CompleteCheckout(context.Background(), checkoutRequest(sellerID))
		require.NoError(t, err)
		require.NoError(t, orderRepo.saved.MarkPaid(time.Now()))

		first, err := coordinator.SettleOrder(context.Background(), resp.Order.ID)
		require.NoError(t, err)
		assert.False(t, first.AlreadyExisted)
		assert.True(t, first.Payout.NetAmount.Equal(decimal.NewFromFloat(100.00)))
		require.NotNil(t, payoutRepo.created)

		second, err := coordinator.SettleOrder(context.Background(), resp.Order.ID)
		require.NoError(t, err)
		assert.True(t, second.AlreadyExisted)
		assert.Equal(t, first.Payout.ID, second.Payout.ID)
	})

	t.Run("unpaid order cannot settle", func(t *testing.T) {
		coordinator, orderRepo, _, processor, sellerID := coordinatorFixture(t)

		processor.On("CreateIntent", mock.Anything, mock.Anything).
			Return(&domainsettlement.Authorization{
				IntentID:    "pi_123",
				ClientToken: "pi_123_secret",
				Status:      domainsettlement.IntentStatusRequiresConfirmation,
			}, nil)

		resp, err := coordinator.CompleteCheckout(context.Background(), checkoutRequest(sellerID))
		require.NoError(t, err)
		require.NotNil(t, orderRepo.saved)

		_, err = coordinator.SettleOrder(context.Background(), resp.Order.ID)

		assert.ErrorIs(t, err, payoutapp.ErrOrderNotPaid)
	})
}

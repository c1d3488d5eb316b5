package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.SellerPayout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.SellerPayout), args.Error(1)
}

func (m *MockPayoutRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*settlement.SellerPayout, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.SellerPayout), args.Error(1)
}

func (m *MockPayoutRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settlement.SellerPayout, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.SellerPayout), args.Error(1)
}

func (m *MockPayoutRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]settlement.SellerPayout, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.SellerPayout), args.Error(1)
}

func (m *MockPayoutRepository) FindByStatus(ctx context.Context, status settlement.PayoutStatus, filter shared.Filter) ([]settlement.SellerPayout, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.SellerPayout), args.Error(1)
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *settlement.SellerPayout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) SaveWithLock(ctx context.Context, payout *settlement.SellerPayout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) SumNetByCompany(ctx context.Context, companyID uuid.UUID) (map[settlement.PayoutStatus]decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[settlement.PayoutStatus]decimal.Decimal), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*settlement.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settlement.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyerEmail(ctx context.Context, email string, filter shared.Filter) ([]settlement.Order, error) {
	args := m.Called(ctx, email, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBySellerCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]settlement.Order, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status settlement.OrderStatus, filter shared.Filter) ([]settlement.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *settlement.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *settlement.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByName(ctx context.Context, name string) (*partner.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) CreateIntent(ctx context.Context, req *settlement.AuthorizationRequest) (*settlement.Authorization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Authorization), args.Error(1)
}

func (m *MockPaymentProcessor) ConfirmIntent(ctx context.Context, intentID string) (*settlement.ConfirmationResult, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ConfirmationResult), args.Error(1)
}

func (m *MockPaymentProcessor) CreateTransfer(ctx context.Context, req *settlement.TransferRequest) (*settlement.TransferResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.TransferResult), args.Error(1)
}

func (m *MockPaymentProcessor) VerifyWebhook(payload []byte, signature string) (*settlement.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.WebhookEvent), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

func usCompany(id uuid.UUID) *partner.Company {
	company, _ := partner.NewCompany("Apex Machining", "US", "ops@apexmachining.com")
	company.ID = id
	company.StripeAccountID = "acct_apex"
	company.ClearDomainEvents()
	return company
}

func paidFixtureOrder(sellerID uuid.UUID) *settlement.Order {
	order, _ := settlement.NewOrder("ORD-20260829-0001", sellerID, settlement.BuyerInfo{
		Name:            "Dana Reeves",
		Email:           "dana@example.com",
		ShippingAddress: "12 Dock St",
		BillingAddress:  "12 Dock St",
	}, "")
	_ = order.AddItem(uuid.New(), decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(10.00), "")
	_ = order.FinalizePricing(decimal.Zero, decimal.Zero,
		decimal.NewFromFloat(7.90), decimal.NewFromFloat(107.90))
	_ = order.MarkPaid(time.Now())
	order.ClearDomainEvents()
	return order
}

func payoutFixture(order *settlement.Order, method settlement.PayoutMethod) *settlement.SellerPayout {
	payout, _ := settlement.NewSellerPayoutFromOrder(order, decimal.NewFromFloat(7.9), method)
	payout.ClearDomainEvents()
	return payout
}

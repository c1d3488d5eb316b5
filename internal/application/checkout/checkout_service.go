package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound is returned when an order cannot be found
	ErrOrderNotFound = errors.New("checkout: order not found")
	// ErrCompanyNotFound is returned when the cart's seller company does not exist
	ErrCompanyNotFound = errors.New("checkout: seller company not found")
	// ErrCompanyInactive is returned when the seller company cannot take orders
	ErrCompanyInactive = errors.New("checkout: seller company is inactive")
	// ErrBelowProcessorMinimum is returned before any external call when the
	// order total is under the processor's minimum charge
	ErrBelowProcessorMinimum = errors.New("checkout: order total below processor minimum")
	// ErrIntentMismatch is returned when a confirmation names an intent that
	// was issued for a different order
	ErrIntentMismatch = errors.New("checkout: intent does not belong to this order")
	// ErrConfirmationConflict is returned when the order's payment status is
	// neither pending nor paid at confirmation time
	ErrConfirmationConflict = errors.New("checkout: order payment state conflicts with confirmation")
)

// CheckoutService drives the buyer-facing order and payment flow
type CheckoutService struct {
	orderRepo      settlement.OrderRepository
	paymentRepo    settlement.PaymentRepository
	companyRepo    partner.CompanyRepository
	processor      settlement.PaymentProcessor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	feePercent     decimal.Decimal
	pendingIntents sync.Map // intent id -> order id, for confirmation matching
}

// CheckoutServiceConfig holds the dependencies for CheckoutService
type CheckoutServiceConfig struct {
	OrderRepo      settlement.OrderRepository
	PaymentRepo    settlement.PaymentRepository
	CompanyRepo    partner.CompanyRepository
	Processor      settlement.PaymentProcessor
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
	FeePercent     decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(config CheckoutServiceConfig) *CheckoutService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		orderRepo:      config.OrderRepo,
		paymentRepo:    config.PaymentRepo,
		companyRepo:    config.CompanyRepo,
		processor:      config.Processor,
		eventPublisher: config.EventPublisher,
		logger:         logger,
		feePercent:     config.FeePercent,
	}
}

// ValidateCart checks the cart against the single-seller rule and confirms
// the seller company can take orders. It has no side effects.
func (s *CheckoutService) ValidateCart(ctx context.Context, req *ValidateCartRequest) (*ValidateCartResponse, error) {
	items := make([]settlement.CartItem, len(req.Items))
	for i, in := range req.Items {
		items[i] = in.ToCartItem()
	}

	sellerID, err := settlement.SellerForCart(items)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load seller company: %w", err)
	}
	if !company.IsActive() {
		return nil, ErrCompanyInactive
	}

	return &ValidateCartResponse{
		SellerCompanyID: sellerID,
		Subtotal:        settlement.CartSubtotal(items),
		ItemCount:       len(items),
	}, nil
}

// CreateOrder creates a pending order from a validated cart. The platform fee
// is added on top of subtotal + shipping + tax, so the buyer-facing total
// already contains it.
func (s *CheckoutService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	validated, err := s.ValidateCart(ctx, &ValidateCartRequest{Items: req.Items})
	if err != nil {
		return nil, err
	}
	if req.ShippingAmount.IsNegative() || req.TaxAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Shipping and tax amounts cannot be negative")
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	buyer := settlement.BuyerInfo{
		Name:            req.Buyer.Name,
		Email:           req.Buyer.Email,
		Company:         req.Buyer.Company,
		ShippingAddress: req.Buyer.ShippingAddress,
		BillingAddress:  req.Buyer.BillingAddress,
	}
	order, err := settlement.NewOrder(orderNumber, validated.SellerCompanyID, buyer, req.Notes)
	if err != nil {
		return nil, err
	}

	for _, in := range req.Items {
		specs := ""
		if len(in.Specifications) > 0 {
			encoded, err := json.Marshal(in.Specifications)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_SPECIFICATIONS", "Specifications cannot be encoded")
			}
			specs = string(encoded)
		}
		if err := order.AddItem(in.ProductID, in.Quantity, valueobject.NewMoneyUSD(in.UnitPrice), specs); err != nil {
			return nil, err
		}
	}

	// the fee applies to everything the buyer pays for, not just the goods
	chargeable := order.Subtotal.Add(req.ShippingAmount).Add(req.TaxAmount)
	total, err := settlement.ApplyAdditive(valueobject.NewMoneyUSD(chargeable), s.feePercent)
	if err != nil {
		return nil, err
	}
	platformFee := total.Amount().Sub(chargeable)

	if err := order.FinalizePricing(req.ShippingAmount, req.TaxAmount, platformFee, total.Amount()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("seller_company_id", order.SellerCompanyID.String()),
		zap.String("total_amount", order.TotalAmount.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// RequestAuthorization creates a payment intent for the order total and
// returns the client token. Totals below the processor minimum are rejected
// before any external call.
func (s *CheckoutService) RequestAuthorization(ctx context.Context, orderID uuid.UUID) (*AuthorizationResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, ErrConfirmationConflict
	}
	if order.TotalAmount.LessThan(settlement.MinimumChargeUSD) {
		return nil, ErrBelowProcessorMinimum
	}

	company, err := s.companyRepo.FindByID(ctx, order.SellerCompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller company: %w", err)
	}

	merchantAmount := order.TotalAmount.Sub(order.PlatformFeeAmount)
	req := &settlement.AuthorizationRequest{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		Currency:    string(order.Currency),
		BuyerEmail:  order.BuyerEmail,
		Description: "Order " + order.OrderNumber,
		Metadata: map[string]string{
			settlement.MetadataKeyOrderID:           order.ID.String(),
			settlement.MetadataKeyOrderNumber:       order.OrderNumber,
			settlement.MetadataKeyPlatformFeeAmount: order.PlatformFeeAmount.StringFixed(2),
			settlement.MetadataKeyMerchantAmount:    merchantAmount.StringFixed(2),
			settlement.MetadataKeyPaymentFlow:       string(company.PayoutChannel()),
			settlement.MetadataKeyMerchantCountry:   company.Country,
		},
	}

	auth, err := s.processor.CreateIntent(ctx, req)
	if err != nil {
		s.logger.Error("Payment intent creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.pendingIntents.Store(auth.IntentID, order.ID)

	s.logger.Info("Payment intent created",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", auth.IntentID))

	return &AuthorizationResponse{
		OrderID:     order.ID,
		IntentID:    auth.IntentID,
		ClientToken: auth.ClientToken,
	}, nil
}

// ConfirmPayment finalizes an intent the buyer confirmed client side. It is
// idempotent: an already-paid order returns success without a new payment row
// or a second OrderPaid event, whichever path (client retry, webhook) gets
// here first.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	order, err := s.findOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid() {
		s.logger.Info("Payment already confirmed, returning existing state",
			zap.String("order_id", order.ID.String()))
		return s.alreadyProcessedResponse(order), nil
	}
	if order.PaymentStatus != settlement.PaymentStatusPending &&
		order.PaymentStatus != settlement.PaymentStatusPartial {
		return nil, ErrConfirmationConflict
	}

	if mapped, ok := s.pendingIntents.Load(req.IntentID); ok {
		if mapped.(uuid.UUID) != order.ID {
			return nil, ErrIntentMismatch
		}
	}

	result, err := s.processor.ConfirmIntent(ctx, req.IntentID)
	if err != nil {
		s.logger.Error("Intent confirmation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", req.IntentID),
			zap.Error(err))
		return nil, err
	}

	if !result.Status.IsSuccess() {
		return s.recordFailedAttempt(ctx, order, result)
	}
	return s.recordCompletedPayment(ctx, order, result)
}

// recordCompletedPayment persists the payment and the paid order atomically.
// A concurrent winner surfaces as a duplicate-key conflict; the loser re-reads
// and reports the same success.
func (s *CheckoutService) recordCompletedPayment(ctx context.Context, order *settlement.Order, result *settlement.ConfirmationResult) (*ConfirmPaymentResponse, error) {
	payment, err := settlement.NewPayment(order, "stripe", settlement.PaymentRecordStatusCompleted,
		result.TransactionID, result.RawResponse, result.ProcessedAt)
	if err != nil {
		return nil, err
	}
	if err := order.MarkPaid(result.ProcessedAt); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.CreateWithOrderPaid(ctx, payment, order); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) || errors.Is(err, shared.ErrConcurrencyConflict) {
			fresh, ferr := s.findOrder(ctx, order.ID)
			if ferr != nil {
				return nil, ferr
			}
			s.logger.Info("Concurrent confirmation won the race, returning its result",
				zap.String("order_id", order.ID.String()))
			return s.alreadyProcessedResponse(fresh), nil
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.pendingIntents.Delete(result.IntentID)
	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("transaction_id", result.TransactionID),
		zap.String("amount", payment.Amount.String()))

	return &ConfirmPaymentResponse{
		Success: true,
		Order:   ToOrderResponse(order),
	}, nil
}

// recordFailedAttempt stores the failed attempt as its own row; the order
// stays pending and the buyer may retry with a fresh authorization.
func (s *CheckoutService) recordFailedAttempt(ctx context.Context, order *settlement.Order, result *settlement.ConfirmationResult) (*ConfirmPaymentResponse, error) {
	payment, err := settlement.NewPayment(order, "stripe", settlement.PaymentRecordStatusFailed,
		result.TransactionID, result.RawResponse, result.ProcessedAt)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record failed payment attempt: %w", err)
	}

	s.logger.Warn("Payment attempt failed",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", result.IntentID),
		zap.String("failure_message", result.FailureMessage))

	return &ConfirmPaymentResponse{
		Success:        false,
		FailureMessage: result.FailureMessage,
		Order:          ToOrderResponse(order),
	}, nil
}

func (s *CheckoutService) alreadyProcessedResponse(order *settlement.Order) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		Success:          true,
		AlreadyProcessed: true,
		Order:            ToOrderResponse(order),
	}
}

func (s *CheckoutService) findOrder(ctx context.Context, id uuid.UUID) (*settlement.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *CheckoutService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
}

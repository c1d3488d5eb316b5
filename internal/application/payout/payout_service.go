package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	// ErrPayoutNotFound is returned when a payout cannot be found
	ErrPayoutNotFound = errors.New("payout: payout not found")
	// ErrOrderNotFound is returned when the referenced order does not exist
	ErrOrderNotFound = errors.New("payout: order not found")
	// ErrOrderNotPaid is returned when deriving a payout from an unpaid order
	ErrOrderNotPaid = errors.New("payout: order is not paid")
	// ErrMissingStripeAccount is returned when a stripe payout is completed
	// for a company without a connected account
	ErrMissingStripeAccount = errors.New("payout: company has no stripe account")
)

// PayoutService manages the seller payout ledger
type PayoutService struct {
	payoutRepo     settlement.PayoutRepository
	orderRepo      settlement.OrderRepository
	companyRepo    partner.CompanyRepository
	processor      settlement.PaymentProcessor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	feePercent     decimal.Decimal
}

// PayoutServiceConfig holds the dependencies for PayoutService
type PayoutServiceConfig struct {
	PayoutRepo     settlement.PayoutRepository
	OrderRepo      settlement.OrderRepository
	CompanyRepo    partner.CompanyRepository
	Processor      settlement.PaymentProcessor
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
	FeePercent     decimal.Decimal
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(config PayoutServiceConfig) *PayoutService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutService{
		payoutRepo:     config.PayoutRepo,
		orderRepo:      config.OrderRepo,
		companyRepo:    config.CompanyRepo,
		processor:      config.Processor,
		eventPublisher: config.EventPublisher,
		logger:         logger,
		feePercent:     config.FeePercent,
	}
}

// IsEligible reports whether an order can produce a payout: it is paid and
// no payout exists for it yet
func (s *PayoutService) IsEligible(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !order.IsPaid() {
		return false, nil
	}
	_, err = s.payoutRepo.FindByOrderID(ctx, orderID)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return true, nil
	}
	return false, fmt.Errorf("failed to check existing payout: %w", err)
}

// CreateFromOrder derives the payout owed for a paid order. The operation is
// idempotent: the unique index on the order reference makes the second caller
// lose the insert race, re-read, and return the winner's row as success.
func (s *PayoutService) CreateFromOrder(ctx context.Context, req *CreatePayoutRequest) (*CreatePayoutResponse, error) {
	order, err := s.findOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid() {
		return nil, ErrOrderNotPaid
	}

	if existing, err := s.payoutRepo.FindByOrderID(ctx, req.OrderID); err == nil {
		return &CreatePayoutResponse{Payout: ToPayoutResponse(existing), AlreadyExisted: true}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing payout: %w", err)
	}

	method, err := s.resolveMethod(ctx, order.SellerCompanyID, req.Method)
	if err != nil {
		return nil, err
	}

	payout, err := settlement.NewSellerPayoutFromOrder(order, s.feePercent, method)
	if err != nil {
		return nil, err
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			winner, ferr := s.payoutRepo.FindByOrderID(ctx, req.OrderID)
			if ferr != nil {
				return nil, fmt.Errorf("failed to load concurrent payout: %w", ferr)
			}
			s.logger.Info("Concurrent payout creation won the race, returning its row",
				zap.String("order_id", req.OrderID.String()))
			return &CreatePayoutResponse{Payout: ToPayoutResponse(winner), AlreadyExisted: true}, nil
		}
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}

	s.publishEvents(ctx, payout.GetDomainEvents())
	payout.ClearDomainEvents()

	s.logger.Info("Payout created",
		zap.String("payout_id", payout.ID.String()),
		zap.String("order_id", payout.OrderID.String()),
		zap.String("company_id", payout.CompanyID.String()),
		zap.String("net_amount", payout.NetAmount.String()),
		zap.String("method", string(payout.Method)))

	return &CreatePayoutResponse{Payout: ToPayoutResponse(payout)}, nil
}

// resolveMethod picks the payout channel: explicit override, else the
// company's resolved channel (preference or country default)
func (s *PayoutService) resolveMethod(ctx context.Context, companyID uuid.UUID, override string) (settlement.PayoutMethod, error) {
	if override != "" {
		method := settlement.PayoutMethod(override)
		if !method.IsValid() {
			return "", shared.NewDomainError("INVALID_PAYOUT_METHOD", "Unknown payout method")
		}
		return method, nil
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to load company: %w", err)
	}
	if company.PayoutChannel() == partner.PayoutPreferenceStripe {
		return settlement.PayoutMethodStripe, nil
	}
	return settlement.PayoutMethodManual, nil
}

// GetPayout returns a single payout
func (s *PayoutService) GetPayout(ctx context.Context, id uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.findPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayoutResponse(payout)
	return &resp, nil
}

// GetPayoutForOrder returns the payout derived from an order, if any
func (s *PayoutService) GetPayoutForOrder(ctx context.Context, orderID uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	resp := ToPayoutResponse(payout)
	return &resp, nil
}

// ListPayouts returns a paginated list of payouts
func (s *PayoutService) ListPayouts(ctx context.Context, filter shared.Filter) (*shared.Paginated[PayoutResponse], error) {
	payouts, err := s.payoutRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	total, err := s.payoutRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count payouts: %w", err)
	}
	result := shared.NewPaginated(ToPayoutResponses(payouts), total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkProcessing moves a pending payout to processing
func (s *PayoutService) MarkProcessing(ctx context.Context, id uuid.UUID) (*PayoutResponse, error) {
	return s.mutate(ctx, id, func(p *settlement.SellerPayout) error {
		return p.MarkProcessing()
	})
}

// MarkCompleted completes a payout. Stripe payouts push a transfer to the
// company's connected account first; manual payouts record the operator's
// reference.
func (s *PayoutService) MarkCompleted(ctx context.Context, id uuid.UUID, req *CompletePayoutRequest) (*PayoutResponse, error) {
	payout, err := s.findPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	switch payout.Method {
	case settlement.PayoutMethodStripe:
		if err := s.executeStripeTransfer(ctx, payout); err != nil {
			return nil, err
		}
	case settlement.PayoutMethodManual:
		if req != nil && req.ManualReference != "" {
			if err := payout.AttachManualReference(req.ManualReference, req.ManualNotes); err != nil {
				return nil, err
			}
		}
	}

	if err := payout.MarkCompleted(nil); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.SaveWithLock(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to save payout: %w", err)
	}

	s.publishEvents(ctx, payout.GetDomainEvents())
	payout.ClearDomainEvents()

	s.logger.Info("Payout completed",
		zap.String("payout_id", payout.ID.String()),
		zap.String("method", string(payout.Method)),
		zap.String("net_amount", payout.NetAmount.String()))

	resp := ToPayoutResponse(payout)
	return &resp, nil
}

// executeStripeTransfer pushes the net amount to the company's connected
// account and records the transfer id
func (s *PayoutService) executeStripeTransfer(ctx context.Context, payout *settlement.SellerPayout) error {
	company, err := s.companyRepo.FindByID(ctx, payout.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load company: %w", err)
	}
	if company.StripeAccountID == "" {
		return ErrMissingStripeAccount
	}

	transfer, err := s.processor.CreateTransfer(ctx, &settlement.TransferRequest{
		PayoutID:           payout.ID,
		DestinationAccount: company.StripeAccountID,
		Amount:             payout.NetAmount,
		Currency:           string(payout.Currency),
		Description:        "Payout for order " + payout.OrderID.String(),
		Metadata: map[string]string{
			"payout_id": payout.ID.String(),
			"order_id":  payout.OrderID.String(),
		},
	})
	if err != nil {
		s.logger.Error("Stripe transfer failed",
			zap.String("payout_id", payout.ID.String()),
			zap.Error(err))
		return err
	}
	return payout.AttachStripeTransfer(transfer.TransferID)
}

// MarkFailed records a payout failure
func (s *PayoutService) MarkFailed(ctx context.Context, id uuid.UUID, req *FailPayoutRequest) (*PayoutResponse, error) {
	return s.mutate(ctx, id, func(p *settlement.SellerPayout) error {
		return p.MarkFailed(req.Reason, nil)
	})
}

// Retry re-enters a failed payout into the pending state
func (s *PayoutService) Retry(ctx context.Context, id uuid.UUID) (*PayoutResponse, error) {
	return s.mutate(ctx, id, func(p *settlement.SellerPayout) error {
		return p.Retry()
	})
}

// CompanyEarnings summarizes a company's payout totals by status
func (s *PayoutService) CompanyEarnings(ctx context.Context, companyID uuid.UUID) (*CompanyEarningsResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	sums, err := s.payoutRepo.SumNetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payouts: %w", err)
	}
	return &CompanyEarningsResponse{
		CompanyID: companyID,
		Pending:   sums[settlement.PayoutStatusPending].Add(sums[settlement.PayoutStatusProcessing]),
		Completed: sums[settlement.PayoutStatusCompleted],
		Failed:    sums[settlement.PayoutStatusFailed],
	}, nil
}

func (s *PayoutService) mutate(ctx context.Context, id uuid.UUID, fn func(*settlement.SellerPayout) error) (*PayoutResponse, error) {
	payout, err := s.findPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(payout); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.SaveWithLock(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to save payout: %w", err)
	}

	s.publishEvents(ctx, payout.GetDomainEvents())
	payout.ClearDomainEvents()

	resp := ToPayoutResponse(payout)
	return &resp, nil
}

func (s *PayoutService) findPayout(ctx context.Context, id uuid.UUID) (*settlement.SellerPayout, error) {
	payout, err := s.payoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	return payout, nil
}

func (s *PayoutService) findOrder(ctx context.Context, id uuid.UUID) (*settlement.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *PayoutService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish payout events", zap.Error(err))
	}
}

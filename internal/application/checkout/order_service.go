package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService serves order queries and fulfillment transitions
type OrderService struct {
	orderRepo      settlement.OrderRepository
	paymentRepo    settlement.PaymentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// OrderServiceConfig holds the dependencies for OrderService
type OrderServiceConfig struct {
	OrderRepo      settlement.OrderRepository
	PaymentRepo    settlement.PaymentRepository
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(config OrderServiceConfig) *OrderService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:      config.OrderRepo,
		paymentRepo:    config.PaymentRepo,
		eventPublisher: config.EventPublisher,
		logger:         logger,
	}
}

// GetOrder returns a single order
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders returns a paginated list of orders
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderListItemResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	result := shared.NewPaginated(ToOrderListItemResponses(orders), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListPayments returns all payment attempts for an order, each with its
// breakdown derived from the stored gateway snapshot
func (s *OrderService) ListPayments(ctx context.Context, orderID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	payments, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		payment := &payments[i]
		breakdown, err := payment.Breakdown()
		if err != nil {
			// a corrupt snapshot must not hide the payment row itself
			s.logger.Error("Failed to derive payment breakdown",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(err))
			breakdown = nil
		}
		responses = append(responses, ToPaymentResponse(payment, breakdown))
	}
	return responses, nil
}

// UpdateStatus moves an order through the fulfillment state machine
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := order.TransitionStatus(settlement.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish order status event",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}
	order.ClearDomainEvents()

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", req.Status))

	resp := ToOrderResponse(order)
	return &resp, nil
}

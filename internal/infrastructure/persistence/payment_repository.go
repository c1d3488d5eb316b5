package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements settlement.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds all payment attempts for an order, newest first
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]settlement.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]settlement.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// FindCompletedByOrderID finds the completed payment for an order, if any
func (r *GormPaymentRepository) FindCompletedByOrderID(ctx context.Context, orderID uuid.UUID) (*settlement.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, settlement.PaymentRecordStatusCompleted).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTransactionID finds a payment by processor transaction ID
func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*settlement.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates a payment record. Payment rows are insert-only.
func (r *GormPaymentRepository) Save(ctx context.Context, payment *settlement.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreateWithOrderPaid persists the completed payment and the order's paid
// state in a single transaction. The partial unique index on completed
// payments per order turns a concurrent double confirmation into a
// duplicate-key failure; the version check on the order catches interleaved
// order updates. Either way the caller gets a conflict error and re-reads.
func (r *GormPaymentRepository) CreateWithOrderPaid(ctx context.Context, payment *settlement.Payment, order *settlement.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paymentModel := models.PaymentModelFromDomain(payment)
		if err := tx.Create(paymentModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		currentVersion := order.Version
		order.Version++
		order.UpdatedAt = time.Now()
		orderModel := models.OrderModelFromDomain(order)

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", orderModel.ID, currentVersion).
			Updates(map[string]interface{}{
				"payment_status": orderModel.PaymentStatus,
				"paid_at":        orderModel.PaidAt,
				"version":        orderModel.Version,
				"updated_at":     orderModel.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return nil
	})
}

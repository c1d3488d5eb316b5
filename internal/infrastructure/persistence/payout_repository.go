package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPayoutRepository implements settlement.PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout by its ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.SellerPayout, error) {
	var model models.SellerPayoutModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the payout for an order, if one exists
func (r *GormPayoutRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*settlement.SellerPayout, error) {
	var model models.SellerPayoutModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds payouts with filtering and pagination
func (r *GormPayoutRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settlement.SellerPayout, error) {
	var rows []models.SellerPayoutModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SellerPayoutModel{}),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayouts(rows), nil
}

// FindByCompany finds payouts owed to a company
func (r *GormPayoutRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]settlement.SellerPayout, error) {
	var rows []models.SellerPayoutModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SellerPayoutModel{}).
			Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayouts(rows), nil
}

// FindByStatus finds payouts by status
func (r *GormPayoutRepository) FindByStatus(ctx context.Context, status settlement.PayoutStatus, filter shared.Filter) ([]settlement.SellerPayout, error) {
	var rows []models.SellerPayoutModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SellerPayoutModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayouts(rows), nil
}

// Create inserts a new payout. The unique index on order_id makes the second
// insert for the same order fail; that failure is surfaced as
// shared.ErrAlreadyExists so callers can re-read the winning row.
func (r *GormPayoutRepository) Create(ctx context.Context, payout *settlement.SellerPayout) error {
	model := models.SellerPayoutModelFromDomain(payout)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPayoutRepository) SaveWithLock(ctx context.Context, payout *settlement.SellerPayout) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.SellerPayoutModel{}).
			Where("id = ?", payout.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != payout.Version {
			return shared.ErrConcurrencyConflict
		}

		payout.Version++
		payout.UpdatedAt = time.Now()
		model := models.SellerPayoutModelFromDomain(payout)

		result := tx.Model(&models.SellerPayoutModel{}).
			Where("id = ? AND version = ?", model.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":             model.Status,
				"method":             model.Method,
				"stripe_transfer_id": model.StripeTransferID,
				"manual_reference":   model.ManualReference,
				"manual_notes":       model.ManualNotes,
				"failure_reason":     model.FailureReason,
				"processed_at":       model.ProcessedAt,
				"failed_at":          model.FailedAt,
				"version":            model.Version,
				"updated_at":         model.UpdatedAt,
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

// Count counts payouts matching the filter
func (r *GormPayoutRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.SellerPayoutModel{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumNetByCompany sums net amounts per status for a company
func (r *GormPayoutRepository) SumNetByCompany(ctx context.Context, companyID uuid.UUID) (map[settlement.PayoutStatus]decimal.Decimal, error) {
	type statusSum struct {
		Status settlement.PayoutStatus
		Total  decimal.Decimal
	}

	var rows []statusSum
	if err := r.db.WithContext(ctx).
		Model(&models.SellerPayoutModel{}).
		Select("status, COALESCE(SUM(net_amount), 0) AS total").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[settlement.PayoutStatus]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Status] = row.Total
	}
	return sums, nil
}

// applyFilter applies filter options to the query
func (r *GormPayoutRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PayoutSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPayoutRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("stripe_transfer_id ILIKE ? OR manual_reference ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "method":
			query = query.Where("method = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

func toDomainPayouts(rows []models.SellerPayoutModel) []settlement.SellerPayout {
	payouts := make([]settlement.SellerPayout, len(rows))
	for i := range rows {
		payouts[i] = *rows[i].ToDomain()
	}
	return payouts
}

package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func orderRows(orderID uuid.UUID, orderNumber string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "version", "order_number", "seller_company_id", "buyer_name", "buyer_email",
		"total_amount", "currency", "status", "payment_status",
	}).AddRow(
		orderID, 1, orderNumber, uuid.New(), "Dana Walsh", "dana@example.com",
		decimal.RequireFromString("107.90"), "USD", "pending", "pending",
	)
}

func TestNewGormOrderRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order with items", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows(orderID, "ORD-20260115-0001"))

		itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "amount"}).
			AddRow(uuid.New(), orderID, uuid.New(),
				decimal.RequireFromString("10"), decimal.RequireFromString("10.00"), decimal.RequireFromString("100.00"))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(itemRows)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, "ORD-20260115-0001", order.OrderNumber)
		assert.Equal(t, valueobject.USD, order.Currency)
		assert.Len(t, order.Items, 1)
		assert.True(t, order.Items[0].Amount.Equal(decimal.RequireFromString("100.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Error(t, err)
		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByOrderNumber(t *testing.T) {
	t.Run("finds order by number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ORD-20260115-0042", 1).
			WillReturnRows(orderRows(orderID, "ORD-20260115-0042"))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		order, err := repo.FindByOrderNumber(context.Background(), "ORD-20260115-0042")

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, "ORD-20260115-0042", order.OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ORD-20260115-9999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByOrderNumber(context.Background(), "ORD-20260115-9999")

		assert.Error(t, err)
		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindBySellerCompany(t *testing.T) {
	t.Run("applies pagination and default ordering", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()
		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE seller_company_id = \$1 ORDER BY created_at DESC LIMIT .* OFFSET .*`).
			WithArgs(companyID, 10, 10).
			WillReturnRows(orderRows(orderID, "ORD-20260115-0001"))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		orders, err := repo.FindBySellerCompany(context.Background(), companyID, shared.Filter{Page: 2, PageSize: 10})

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to created_at for unknown sort field", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE seller_company_id = \$1 ORDER BY created_at DESC`).
			WithArgs(companyID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		orders, err := repo.FindBySellerCompany(context.Background(), companyID,
			shared.Filter{OrderBy: "total_amount; DROP TABLE orders"})

		assert.NoError(t, err)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByStatus(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs(settlement.OrderStatusConfirmed).
			WillReturnRows(orderRows(orderID, "ORD-20260115-0001"))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		orders, err := repo.FindByStatus(context.Background(), settlement.OrderStatusConfirmed, shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Count(t *testing.T) {
	t.Run("counts with search filter", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_number ILIKE \$1 OR buyer_name ILIKE \$2 OR buyer_email ILIKE \$3`).
			WithArgs("%dana%", "%dana%", "%dana%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.Count(context.Background(), shared.Filter{Search: "dana"})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &settlement.Order{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			OrderNumber:       "ORD-20260115-0001",
			SellerCompanyID:   uuid.New(),
			BuyerName:         "Dana Walsh",
			BuyerEmail:        "dana@example.com",
			Currency:          valueobject.USD,
			Status:            settlement.OrderStatusPending,
			PaymentStatus:     settlement.PaymentStatusPending,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT version FROM "orders" WHERE id = \$1`).
			WithArgs(order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), order)

		assert.NoError(t, err)
		assert.Equal(t, 2, order.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &settlement.Order{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			OrderNumber:       "ORD-20260115-0001",
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT version FROM "orders" WHERE id = \$1`).
			WithArgs(order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), order)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("detects concurrent update between read and write", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &settlement.Order{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			OrderNumber:       "ORD-20260115-0001",
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT version FROM "orders" WHERE id = \$1`).
			WithArgs(order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), order)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	prefix := fmt.Sprintf("ORD-%s-", time.Now().Format("20060102"))

	t.Run("starts at 0001 for the first order of the day", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number LIKE \$1 ORDER BY order_number DESC`).
			WithArgs(prefix+"%", 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_number = \$1`).
			WithArgs(prefix + "0001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		orderNumber, err := repo.GenerateOrderNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, prefix+"0001", orderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments from the highest number of the day", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number LIKE \$1 ORDER BY order_number DESC`).
			WithArgs(prefix+"%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_number"}).
				AddRow(uuid.New(), prefix+"0007"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_number = \$1`).
			WithArgs(prefix + "0008").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		orderNumber, err := repo.GenerateOrderNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, prefix+"0008", orderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips past a taken number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number LIKE \$1 ORDER BY order_number DESC`).
			WithArgs(prefix+"%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_number"}).
				AddRow(uuid.New(), prefix+"0002"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_number = \$1`).
			WithArgs(prefix + "0003").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_number = \$1`).
			WithArgs(prefix + "0004").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		orderNumber, err := repo.GenerateOrderNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, prefix+"0004", orderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

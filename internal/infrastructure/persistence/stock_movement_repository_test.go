package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// newMockStockMovementRepository creates a GormStockMovementRepository with a mocked SQL connection
func newMockStockMovementRepository(t *testing.T) (*GormStockMovementRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormStockMovementRepository(gormDB), mock, mockDB
}

func TestGormStockMovementRepository_Save(t *testing.T) {
	t.Run("appends a movement record", func(t *testing.T) {
		repo, mock, mockDB := newMockStockMovementRepository(t)
		defer mockDB.Close()

		movement, err := inventory.NewStockMovement(
			uuid.New(), uuid.New(), uuid.New(),
			inventory.MovementTypeSaleDeduct,
			decimal.NewFromInt(2),
			decimal.NewFromInt(10), decimal.NewFromInt(8),
		)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "stock_movements"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), movement)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_ExistsByTransition(t *testing.T) {
	t.Run("reports an already written transition", func(t *testing.T) {
		repo, mock, mockDB := newMockStockMovementRepository(t)
		defer mockDB.Close()

		orderItemID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE order_item_id = \$1 AND transition_kind = \$2`).
			WithArgs(orderItemID, "KITCHEN_SEND").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByTransition(context.Background(), orderItemID, inventory.TransitionKindKitchenSend)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a fresh transition", func(t *testing.T) {
		repo, mock, mockDB := newMockStockMovementRepository(t)
		defer mockDB.Close()

		orderItemID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE order_item_id = \$1 AND transition_kind = \$2`).
			WithArgs(orderItemID, "ITEM_CANCEL").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByTransition(context.Background(), orderItemID, inventory.TransitionKindItemCancel)

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_FindByOrderItem(t *testing.T) {
	t.Run("returns the movements for one order item in date order", func(t *testing.T) {
		repo, mock, mockDB := newMockStockMovementRepository(t)
		defer mockDB.Close()

		orderItemID := uuid.New()
		productID := uuid.New()
		branchID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "product_id", "branch_id", "movement_type",
			"quantity", "balance_before", "balance_after", "movement_date",
		}).AddRow(
			uuid.New(), productID, branchID, "SALE_DEDUCT",
			decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.NewFromInt(8), now.Add(-time.Minute),
		).AddRow(
			uuid.New(), productID, branchID, "SALE_REVERSAL",
			decimal.NewFromInt(2), decimal.NewFromInt(8), decimal.NewFromInt(10), now,
		)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE order_item_id = \$1 ORDER BY movement_date ASC`).
			WithArgs(orderItemID).
			WillReturnRows(rows)

		movements, err := repo.FindByOrderItem(context.Background(), orderItemID)

		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, inventory.MovementTypeSaleDeduct, movements[0].MovementType)
		assert.Equal(t, inventory.MovementTypeSaleReversal, movements[1].MovementType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_Count(t *testing.T) {
	t.Run("counts movements filtered by type", func(t *testing.T) {
		repo, mock, mockDB := newMockStockMovementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE movement_type = \$1`).
			WithArgs("SALE_DEDUCT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"movement_type": "SALE_DEDUCT"},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/shared"
)

// newMockStationResolver creates a GormStationResolver with a mocked SQL connection
func newMockStationResolver(t *testing.T) (*GormStationResolver, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormStationResolver(gormDB), mock, mockDB
}

func TestGormStationResolver_Resolve(t *testing.T) {
	t.Run("branch-specific assignment wins", func(t *testing.T) {
		resolver, mock, mockDB := newMockStationResolver(t)
		defer mockDB.Close()

		productID := uuid.New()
		branchID := uuid.New()
		stationID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "product_id", "branch_id", "station_id"}).
			AddRow(uuid.New(), productID, branchID, stationID)

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id = \$2`).
			WithArgs(productID, branchID, 1).
			WillReturnRows(rows)

		resolved, err := resolver.Resolve(context.Background(), productID, branchID)

		require.NoError(t, err)
		assert.Equal(t, stationID, resolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to the product default", func(t *testing.T) {
		resolver, mock, mockDB := newMockStationResolver(t)
		defer mockDB.Close()

		productID := uuid.New()
		branchID := uuid.New()
		stationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id = \$2`).
			WithArgs(productID, branchID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		rows := sqlmock.NewRows([]string{"id", "product_id", "branch_id", "station_id"}).
			AddRow(uuid.New(), productID, nil, stationID)

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id IS NULL`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		resolved, err := resolver.Resolve(context.Background(), productID, branchID)

		require.NoError(t, err)
		assert.Equal(t, stationID, resolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unassigned product resolves to an error", func(t *testing.T) {
		resolver, mock, mockDB := newMockStationResolver(t)
		defer mockDB.Close()

		productID := uuid.New()
		branchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id = \$2`).
			WithArgs(productID, branchID, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id IS NULL`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		resolved, err := resolver.Resolve(context.Background(), productID, branchID)

		assert.Equal(t, uuid.Nil, resolved)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STATION_NOT_FOUND", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStationResolver_Assign(t *testing.T) {
	t.Run("creates a new assignment", func(t *testing.T) {
		resolver, mock, mockDB := newMockStationResolver(t)
		defer mockDB.Close()

		productID := uuid.New()
		stationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id IS NULL`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "station_assignments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := resolver.Assign(context.Background(), productID, nil, stationID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replaces an existing assignment", func(t *testing.T) {
		resolver, mock, mockDB := newMockStationResolver(t)
		defer mockDB.Close()

		productID := uuid.New()
		branchID := uuid.New()
		stationID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "product_id", "branch_id", "station_id"}).
			AddRow(uuid.New(), productID, branchID, uuid.New())

		mock.ExpectQuery(`SELECT \* FROM "station_assignments" WHERE product_id = \$1 AND branch_id = \$2`).
			WithArgs(productID, branchID, 1).
			WillReturnRows(rows)
		mock.ExpectExec(`INSERT INTO "station_assignments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := resolver.Assign(context.Background(), productID, &branchID, stationID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

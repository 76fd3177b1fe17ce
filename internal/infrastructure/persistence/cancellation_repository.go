package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// GormCancellationRepository implements ordering.CancellationRepository using GORM.
// Records are append-only: the repository never updates or deletes them.
type GormCancellationRepository struct {
	db *gorm.DB
}

// NewGormCancellationRepository creates a new GORM-based cancellation repository
func NewGormCancellationRepository(db *gorm.DB) *GormCancellationRepository {
	return &GormCancellationRepository{db: db}
}

// Save appends a cancellation record
func (r *GormCancellationRepository) Save(ctx context.Context, record *ordering.CancellationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByOrder returns the cancellation records written for an order
func (r *GormCancellationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.CancellationRecord, error) {
	var records []ordering.CancellationRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll returns cancellation records with filtering
func (r *GormCancellationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.CancellationRecord, error) {
	var records []ordering.CancellationRecord
	query := r.db.WithContext(ctx).Model(&ordering.CancellationRecord{})

	for key, value := range filter.Filters {
		switch key {
		case "table_id":
			query = query.Where("table_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Ensure GormCancellationRepository implements the repository interface
var _ ordering.CancellationRepository = (*GormCancellationRepository)(nil)

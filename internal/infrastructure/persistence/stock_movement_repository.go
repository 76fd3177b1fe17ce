package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The movement log is append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GORM-based stock movement repository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx returns a copy of the repository bound to an existing transaction
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: tx}
}

// Save appends a movement record
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ExistsByTransition reports whether a movement was already written for an
// order-item transition
func (r *GormStockMovementRepository) ExistsByTransition(ctx context.Context, orderItemID uuid.UUID, kind inventory.TransitionKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("order_item_id = ? AND transition_kind = ?", orderItemID, kind.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByOrderItem returns the movements written for one order item
func (r *GormStockMovementRepository) FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("movement_date ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByProduct returns the movements for a product at a branch
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).
			Where("product_id = ? AND branch_id = ?", productID, branchID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll returns movements with filtering
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements with optional filters
func (r *GormStockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.StockMovement{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("movement_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "movement_type":
			query = query.Where("movement_type = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("movement_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("movement_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormStockMovementRepository implements the repository interface
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

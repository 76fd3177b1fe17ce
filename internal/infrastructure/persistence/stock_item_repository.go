package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// GormStockItemRepository implements inventory.StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GORM-based stock item repository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// WithTx returns a copy of the repository bound to an existing transaction
func (r *GormStockItemRepository) WithTx(tx *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: tx}
}

// FindByID finds a stock item by ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductAndBranch finds the stock item for a product-branch pair
func (r *GormStockItemRepository) FindByProductAndBranch(ctx context.Context, productID, branchID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND branch_id = ?", productID, branchID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranch finds all stock items for a branch
func (r *GormStockItemRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(item).Error
}

// AdjustOnHand atomically applies a signed delta to the on-hand quantity.
// The stock row is locked for the duration of the transaction so the
// before/after pair is consistent under concurrent adjustments.
func (r *GormStockItemRepository) AdjustOnHand(ctx context.Context, productID, branchID uuid.UUID, delta decimal.Decimal, enforceNonNegative bool) (before, after decimal.Decimal, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item inventory.StockItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND branch_id = ?", productID, branchID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		before = item.OnHand
		after = before.Add(delta)

		if enforceNonNegative && !item.AllowNegative && after.IsNegative() {
			return shared.ErrInsufficientStock
		}

		result := tx.Model(&inventory.StockItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"on_hand":    after,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return before, after, nil
}

// Ensure GormStockItemRepository implements the repository interface
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

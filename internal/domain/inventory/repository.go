package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByProductAndBranch finds the stock item for a product-branch pair
	FindByProductAndBranch(ctx context.Context, productID, branchID uuid.UUID) (*StockItem, error)

	// FindByBranch finds all stock items for a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// AdjustOnHand atomically applies a signed delta to the on-hand quantity
	// with a single storage-level update. When enforceNonNegative is true the
	// update is guarded so on-hand never drops below zero; insufficient stock
	// is reported as shared.ErrInsufficientStock. It returns the on-hand
	// quantity before and after the update.
	AdjustOnHand(ctx context.Context, productID, branchID uuid.UUID, delta decimal.Decimal, enforceNonNegative bool) (before, after decimal.Decimal, err error)
}

// StockMovementRepository defines the interface for the append-only movement log
type StockMovementRepository interface {
	// Save appends a movement record
	Save(ctx context.Context, movement *StockMovement) error

	// ExistsByTransition reports whether a movement was already written for
	// an order-item transition. Used for exactly-once enforcement.
	ExistsByTransition(ctx context.Context, orderItemID uuid.UUID, kind TransitionKind) (bool, error)

	// FindByOrderItem returns the movements written for one order item
	FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]StockMovement, error)

	// FindByProduct returns the movements for a product at a branch
	FindByProduct(ctx context.Context, productID, branchID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindAll returns movements with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// Count counts movements with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// StockItem represents the on-hand stock of one product at one branch.
// It is the aggregate root for stock operations.
// The composite identifier is ProductID + BranchID.
type StockItem struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_product_branch,priority:1"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_product_branch,priority:2"`
	OnHand        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AllowNegative bool            `gorm:"not null;default:false"` // products sold without stock tracking (e.g. prepared dishes)
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item for a product-branch combination
func NewStockItem(productID, branchID uuid.UUID, allowNegative bool) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BranchID:          branchID,
		OnHand:            decimal.Zero,
		AllowNegative:     allowNegative,
	}, nil
}

// CanFulfill returns true if a deduction of the given quantity is allowed
func (s *StockItem) CanFulfill(quantity decimal.Decimal) bool {
	if s.AllowNegative {
		return true
	}
	return s.OnHand.GreaterThanOrEqual(quantity)
}

// Deduct reduces on-hand stock. The persistence layer performs the actual
// atomic update; this method validates and records the event.
func (s *StockItem) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !s.CanFulfill(quantity) {
		return shared.ErrInsufficientStock
	}

	oldStock := s.OnHand
	s.OnHand = s.OnHand.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockDeductedEvent(s, quantity, oldStock, s.OnHand))

	return nil
}

// Restore returns previously deducted stock, used for compensating reversals
func (s *StockItem) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	oldStock := s.OnHand
	s.OnHand = s.OnHand.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockRestoredEvent(s, quantity, oldStock, s.OnHand))

	return nil
}

// Adjust sets on-hand stock to the counted quantity.
// The reason is recorded for audit purposes.
func (s *StockItem) Adjust(actualQuantity decimal.Decimal, reason string) (decimal.Decimal, error) {
	if actualQuantity.IsNegative() && !s.AllowNegative {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}
	if reason == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	oldStock := s.OnHand
	s.OnHand = actualQuantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockAdjustedEvent(s, oldStock, actualQuantity, reason))

	return oldStock, nil
}

// HasStock returns true if there is positive on-hand stock
func (s *StockItem) HasStock() bool {
	return s.OnHand.GreaterThan(decimal.Zero)
}

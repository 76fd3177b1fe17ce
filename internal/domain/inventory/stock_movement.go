package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeSaleDeduct represents stock consumed when an item is sent to the kitchen
	MovementTypeSaleDeduct MovementType = "SALE_DEDUCT"
	// MovementTypeSaleReversal represents a compensating reversal for a cancelled item
	MovementTypeSaleReversal MovementType = "SALE_REVERSAL"
	// MovementTypeAdjustmentIncrease represents a positive manual adjustment
	MovementTypeAdjustmentIncrease MovementType = "ADJUSTMENT_INCREASE"
	// MovementTypeAdjustmentDecrease represents a negative manual adjustment
	MovementTypeAdjustmentDecrease MovementType = "ADJUSTMENT_DECREASE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSaleDeduct, MovementTypeSaleReversal,
		MovementTypeAdjustmentIncrease, MovementTypeAdjustmentDecrease:
		return true
	}
	return false
}

// IsDecrease returns true if this movement type reduces on-hand stock
func (t MovementType) IsDecrease() bool {
	return t == MovementTypeSaleDeduct || t == MovementTypeAdjustmentDecrease
}

// TransitionKind identifies which order-item transition caused a movement.
// Together with the order item ID it forms the idempotency key that makes a
// retried transition a safe no-op.
type TransitionKind string

const (
	// TransitionKindKitchenSend is the deduction on send-to-kitchen
	TransitionKindKitchenSend TransitionKind = "KITCHEN_SEND"
	// TransitionKindItemCancel is the reversal on per-item cancellation
	TransitionKindItemCancel TransitionKind = "ITEM_CANCEL"
	// TransitionKindOrderCancel is the reversal on whole-order cancellation
	TransitionKindOrderCancel TransitionKind = "ORDER_CANCEL"
)

// String returns the string representation of TransitionKind
func (k TransitionKind) String() string {
	return string(k)
}

// IsValid returns true if the transition kind is valid
func (k TransitionKind) IsValid() bool {
	switch k {
	case TransitionKindKitchenSend, TransitionKindItemCancel, TransitionKindOrderCancel:
		return true
	}
	return false
}

// StockMovement represents an immutable record of a stock change.
// Once created, movements are never modified - corrections are made with new
// compensating movements.
type StockMovement struct {
	shared.BaseEntity
	StockItemID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_item"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_product"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_branch"`
	MovementType   MovementType    `gorm:"type:varchar(30);not null;index:idx_stock_mv_type"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // always positive, direction determined by type
	BalanceBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // on-hand before the movement
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // on-hand after the movement
	OrderItemID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_mv_idem,priority:1"`
	TransitionKind *TransitionKind `gorm:"type:varchar(30);uniqueIndex:idx_stock_mv_idem,priority:2"`
	OperatorID     *uuid.UUID      `gorm:"type:uuid"`
	Reason         string          `gorm:"type:varchar(255)"`
	MovementDate   time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_mv_date"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(
	stockItemID, productID, branchID uuid.UUID,
	movementType MovementType,
	quantity, balanceBefore, balanceAfter decimal.Decimal,
) (*StockMovement, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		StockItemID:   stockItemID,
		ProductID:     productID,
		BranchID:      branchID,
		MovementType:  movementType,
		Quantity:      quantity,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		MovementDate:  time.Now(),
	}, nil
}

// WithTransition sets the idempotency key linking this movement to one
// order-item transition
func (m *StockMovement) WithTransition(orderItemID uuid.UUID, kind TransitionKind) *StockMovement {
	m.OrderItemID = &orderItemID
	m.TransitionKind = &kind
	return m
}

// WithOperator sets the user who caused the movement
func (m *StockMovement) WithOperator(operatorID uuid.UUID) *StockMovement {
	m.OperatorID = &operatorID
	return m
}

// WithReason sets the reason for the movement
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// SignedQuantity returns the quantity with sign based on movement type
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.MovementType.IsDecrease() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// QuantityChange returns the net on-hand change recorded by the snapshot
func (m *StockMovement) QuantityChange() decimal.Decimal {
	return m.BalanceAfter.Sub(m.BalanceBefore)
}

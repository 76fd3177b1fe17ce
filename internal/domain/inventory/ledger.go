package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger coordinates exactly-once stock deductions and reversals.
// Each call writes at most one StockMovement per (orderItemID, kind) pair;
// a retried call for the same transition returns the original movement and
// changes nothing.
type Ledger interface {
	// Deduct reduces on-hand stock for one order-item transition
	Deduct(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind TransitionKind, operatorID *uuid.UUID) (*StockMovement, error)

	// Reverse restores stock previously deducted for an order item
	Reverse(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind TransitionKind, operatorID *uuid.UUID) (*StockMovement, error)
}

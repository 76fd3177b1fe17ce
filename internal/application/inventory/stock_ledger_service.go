package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// StockLedgerService implements the exactly-once stock ledger.
// Every deduction or reversal writes one immutable StockMovement keyed by
// (orderItemID, transitionKind); a retried transition finds the existing
// movement and becomes a no-op. The on-hand update is a single atomic
// storage-level statement, never a read-then-write.
type StockLedgerService struct {
	scope TransactionScope
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(scope TransactionScope) *StockLedgerService {
	return &StockLedgerService{scope: scope}
}

var _ inventory.Ledger = (*StockLedgerService)(nil)

// Deduct reduces on-hand stock for one order-item transition
func (s *StockLedgerService) Deduct(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind inventory.TransitionKind, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	return s.apply(ctx, productID, branchID, quantity, inventory.MovementTypeSaleDeduct, orderItemID, kind, operatorID)
}

// Reverse restores stock previously deducted for an order item
func (s *StockLedgerService) Reverse(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind inventory.TransitionKind, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	return s.apply(ctx, productID, branchID, quantity, inventory.MovementTypeSaleReversal, orderItemID, kind, operatorID)
}

func (s *StockLedgerService) apply(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, movementType inventory.MovementType, orderItemID uuid.UUID, kind inventory.TransitionKind, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Invalid transition kind")
	}

	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.Movements().FindByOrderItem(ctx, orderItemID)
		if err != nil {
			return err
		}
		for idx := range existing {
			if existing[idx].TransitionKind != nil && *existing[idx].TransitionKind == kind {
				movement = &existing[idx]
				return nil
			}
		}

		item, err := repos.StockItems().FindByProductAndBranch(ctx, productID, branchID)
		if err != nil {
			return err
		}

		delta := quantity
		if movementType.IsDecrease() {
			delta = quantity.Neg()
		}
		before, after, err := repos.StockItems().AdjustOnHand(ctx, productID, branchID, delta, movementType.IsDecrease() && !item.AllowNegative)
		if err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(item.ID, productID, branchID, movementType, quantity, before, after)
		if err != nil {
			return err
		}
		movement.WithTransition(orderItemID, kind)
		if operatorID != nil {
			movement.WithOperator(*operatorID)
		}
		if err := repos.Movements().Save(ctx, movement); err != nil {
			return err
		}

		var event shared.DomainEvent
		if movementType == inventory.MovementTypeSaleDeduct {
			event = inventory.NewStockDeductedEvent(item, quantity, before, after)
		} else {
			event = inventory.NewStockRestoredEvent(item, quantity, before, after)
		}
		return repos.SaveEvents(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Adjust corrects on-hand stock to a counted quantity and records an
// adjustment movement
func (s *StockLedgerService) Adjust(ctx context.Context, productID, branchID uuid.UUID, actualQuantity decimal.Decimal, reason string, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItems().FindByProductAndBranch(ctx, productID, branchID)
		if err != nil {
			return err
		}

		delta := actualQuantity.Sub(item.OnHand)
		if delta.IsZero() {
			return shared.NewDomainError("NO_CHANGE", "Counted quantity equals on-hand stock")
		}
		movementType := inventory.MovementTypeAdjustmentIncrease
		if delta.IsNegative() {
			movementType = inventory.MovementTypeAdjustmentDecrease
		}

		before, after, err := repos.StockItems().AdjustOnHand(ctx, productID, branchID, delta, false)
		if err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(item.ID, productID, branchID, movementType, delta.Abs(), before, after)
		if err != nil {
			return err
		}
		movement.WithReason(reason)
		if operatorID != nil {
			movement.WithOperator(*operatorID)
		}
		if err := repos.Movements().Save(ctx, movement); err != nil {
			return err
		}

		return repos.SaveEvents(ctx, inventory.NewStockAdjustedEvent(item, before, after, reason))
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// EnsureStockItem creates the stock item for a product-branch pair if it
// does not exist yet
func (s *StockLedgerService) EnsureStockItem(ctx context.Context, productID, branchID uuid.UUID, allowNegative bool) (*inventory.StockItem, error) {
	var result *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItems().FindByProductAndBranch(ctx, productID, branchID)
		if err == nil {
			result = item
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		item, err = inventory.NewStockItem(productID, branchID, allowNegative)
		if err != nil {
			return err
		}
		if err := repos.StockItems().Save(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStock returns the stock item for a product-branch pair
func (s *StockLedgerService) GetStock(ctx context.Context, productID, branchID uuid.UUID) (*StockItemResponse, error) {
	var resp *StockItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItems().FindByProductAndBranch(ctx, productID, branchID)
		if err != nil {
			return err
		}
		r := ToStockItemResponse(item)
		resp = &r
		return nil
	})
	return resp, err
}

// GetMovements returns the movement log for a product at a branch
func (s *StockLedgerService) GetMovements(ctx context.Context, productID, branchID uuid.UUID, filter shared.Filter) ([]StockMovementResponse, error) {
	var result []StockMovementResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.Movements().FindByProduct(ctx, productID, branchID, filter)
		if err != nil {
			return err
		}
		result = make([]StockMovementResponse, len(movements))
		for i := range movements {
			result[i] = ToStockMovementResponse(&movements[i])
		}
		return nil
	})
	return result, err
}

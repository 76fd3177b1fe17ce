package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/inventory"
)

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	OnHand        decimal.Decimal `json:"on_hand"`
	AllowNegative bool            `json:"allow_negative"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToStockItemResponse converts a stock item to its API representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		BranchID:      item.BranchID,
		OnHand:        item.OnHand,
		AllowNegative: item.AllowNegative,
		UpdatedAt:     item.UpdatedAt,
		Version:       item.Version,
	}
}

// StockMovementResponse represents a movement log row in API responses
type StockMovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	MovementType   string          `json:"movement_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	OrderItemID    *uuid.UUID      `json:"order_item_id,omitempty"`
	TransitionKind string          `json:"transition_kind,omitempty"`
	OperatorID     *uuid.UUID      `json:"operator_id,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	MovementDate   time.Time       `json:"movement_date"`
}

// ToStockMovementResponse converts a movement to its API representation
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	kind := ""
	if m.TransitionKind != nil {
		kind = m.TransitionKind.String()
	}
	return StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		BranchID:       m.BranchID,
		MovementType:   m.MovementType.String(),
		Quantity:       m.Quantity,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		OrderItemID:    m.OrderItemID,
		TransitionKind: kind,
		OperatorID:     m.OperatorID,
		Reason:         m.Reason,
		MovementDate:   m.MovementDate,
	}
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	BranchID       uuid.UUID       `json:"branch_id" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Reason         string          `json:"reason" binding:"required"`
}

// MovementListFilter represents filter options for the movement log
type MovementListFilter struct {
	BranchID *uuid.UUID `form:"branch_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockDeducted = "StockDeducted"
	EventTypeStockRestored = "StockRestored"
	EventTypeStockAdjusted = "StockAdjusted"
)

// StockDeductedEvent is raised when on-hand stock is reduced by a sale
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	OldStock    decimal.Decimal `json:"old_stock"`
	NewStock    decimal.Decimal `json:"new_stock"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(item *StockItem, quantity, oldStock, newStock decimal.Decimal) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		BranchID:        item.BranchID,
		Quantity:        quantity,
		OldStock:        oldStock,
		NewStock:        newStock,
	}
}

// EventType returns the event type name
func (e *StockDeductedEvent) EventType() string {
	return EventTypeStockDeducted
}

// StockRestoredEvent is raised when a compensating reversal returns stock
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	OldStock    decimal.Decimal `json:"old_stock"`
	NewStock    decimal.Decimal `json:"new_stock"`
}

// NewStockRestoredEvent creates a new StockRestoredEvent
func NewStockRestoredEvent(item *StockItem, quantity, oldStock, newStock decimal.Decimal) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		BranchID:        item.BranchID,
		Quantity:        quantity,
		OldStock:        oldStock,
		NewStock:        newStock,
	}
}

// EventType returns the event type name
func (e *StockRestoredEvent) EventType() string {
	return EventTypeStockRestored
}

// StockAdjustedEvent is raised when stock is corrected to a counted quantity
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	OldStock    decimal.Decimal `json:"old_stock"`
	NewStock    decimal.Decimal `json:"new_stock"`
	Reason      string          `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldStock, newStock decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		BranchID:        item.BranchID,
		OldStock:        oldStock,
		NewStock:        newStock,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

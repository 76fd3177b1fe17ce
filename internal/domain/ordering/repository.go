package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its items and persons
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindOpenByTable finds the non-terminal order for a table, if any
	FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*Order, error)

	// FindAll finds orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindOpen finds all non-terminal orders
	FindOpen(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	// This implements the transactional outbox pattern - events are saved to the outbox table
	// in the same transaction as the aggregate, ensuring guaranteed event delivery
	SaveWithLockAndEvents(ctx context.Context, order *Order, events []shared.DomainEvent) error

	// Count counts orders with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders by status
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
}

// CancellationRepository persists whole-order cancellation records.
// Records are append-only; they are written once and never mutated.
type CancellationRepository interface {
	// Save appends a cancellation record
	Save(ctx context.Context, record *CancellationRecord) error

	// FindByOrder returns the cancellation records written for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]CancellationRecord, error)

	// FindAll returns cancellation records with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]CancellationRecord, error)
}

// TableStatusStore is the external table-status collaborator.
// The order lifecycle occupies the table when an order opens and frees it
// when the order reaches a terminal state.
type TableStatusStore interface {
	// Occupy marks a table as occupied by an order
	Occupy(ctx context.Context, tableID, orderID uuid.UUID) error

	// Free releases a table when its order closes
	Free(ctx context.Context, tableID uuid.UUID) error
}

// StationResolver resolves the preparation station for a product when an
// item is sent to the kitchen. Branch-specific overrides win over the
// product's default station.
type StationResolver interface {
	// Resolve returns the station responsible for preparing a product at a branch
	Resolve(ctx context.Context, productID, branchID uuid.UUID) (uuid.UUID, error)
}

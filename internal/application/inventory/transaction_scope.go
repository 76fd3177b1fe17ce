package inventory

import (
	"context"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// StockItems returns the stock item repository scoped to the current transaction
	StockItems() inventory.StockItemRepository
	// Movements returns the movement log repository scoped to the current transaction
	Movements() inventory.StockMovementRepository
	// SaveEvents persists domain events to the outbox table within the current transaction
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	stockRepo    inventory.StockItemRepository
	movementRepo inventory.StockMovementRepository
	eventSink    func(ctx context.Context, events ...shared.DomainEvent) error
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
// eventSink may be nil, in which case events are discarded.
func NewNoOpTransactionScope(
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	eventSink func(ctx context.Context, events ...shared.DomainEvent) error,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		eventSink:    eventSink,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockItems returns the stock item repository.
func (s *NoOpTransactionScope) StockItems() inventory.StockItemRepository {
	return s.stockRepo
}

// Movements returns the movement log repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movementRepo
}

// SaveEvents forwards events to the configured sink, if any.
func (s *NoOpTransactionScope) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if s.eventSink == nil {
		return nil
	}
	return s.eventSink(ctx, events...)
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

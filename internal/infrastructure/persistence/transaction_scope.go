package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/resto/backend/internal/application/inventory"
	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// GormTransactionScope implements the application transaction scope on top
// of a GORM transaction. All repositories handed to the callback share one
// database transaction, and events land in the outbox table before commit.
type GormTransactionScope struct {
	db          *gorm.DB
	stockRepo   *GormStockItemRepository
	movements   *GormStockMovementRepository
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a transaction scope over the given database.
// outboxSaver may be nil, in which case events are discarded.
func NewGormTransactionScope(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{
		db:          db,
		stockRepo:   NewGormStockItemRepository(db),
		movements:   NewGormStockMovementRepository(db),
		outboxSaver: outboxSaver,
	}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{
			tx:          tx,
			stockRepo:   s.stockRepo.WithTx(tx),
			movements:   s.movements.WithTx(tx),
			outboxSaver: s.outboxSaver,
		})
	})
}

type gormTransactionalRepositories struct {
	tx          *gorm.DB
	stockRepo   *GormStockItemRepository
	movements   *GormStockMovementRepository
	outboxSaver shared.OutboxEventSaver
}

// StockItems returns the stock item repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockItems() inventory.StockItemRepository {
	return r.stockRepo
}

// Movements returns the movement log repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return r.movements
}

// SaveEvents persists domain events to the outbox table within the current transaction
func (r *gormTransactionalRepositories) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if r.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	return r.outboxSaver.SaveEvents(ctx, r.tx, events...)
}

// Ensure the scope satisfies the application interfaces
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

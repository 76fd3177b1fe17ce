package persistence

import (
	"context"

	"gorm.io/gorm"

	apppayment "github.com/resto/backend/internal/application/payment"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
	"github.com/resto/backend/internal/domain/shared"
)

// GormSettlementScope implements the payment application transaction scope
// on top of a GORM transaction. The order and payment repositories handed to
// the callback share one database transaction, and events land in the outbox
// table before commit.
type GormSettlementScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSettlementScope creates a settlement scope over the given database.
// outboxSaver may be nil, in which case events are discarded.
func NewGormSettlementScope(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormSettlementScope {
	return &GormSettlementScope{db: db, outboxSaver: outboxSaver}
}

// Execute runs the given function within a database transaction
func (s *GormSettlementScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSettlementRepositories{
			orders:   NewGormOrderRepositoryWithOutbox(tx, s.outboxSaver),
			payments: NewGormPaymentRepositoryWithOutbox(tx, s.outboxSaver),
		})
	})
}

type gormSettlementRepositories struct {
	orders   *GormOrderRepository
	payments *GormPaymentRepository
}

// Orders returns the order repository scoped to the current transaction
func (r *gormSettlementRepositories) Orders() ordering.OrderRepository {
	return r.orders
}

// Payments returns the payment repository scoped to the current transaction
func (r *gormSettlementRepositories) Payments() payment.PaymentRepository {
	return r.payments
}

// Ensure the scope satisfies the application interface
var _ apppayment.TransactionScope = (*GormSettlementScope)(nil)

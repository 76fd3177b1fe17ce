package payment

import (
	"context"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
)

// TransactionScope provides transactional access to the order and payment
// repositories. Settlement reads the balance, writes the order and writes
// the payment inside one scope, so the whole sequence commits or rolls back
// atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() ordering.OrderRepository
	// Payments returns the payment repository scoped to the current transaction
	Payments() payment.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	orderRepo   ordering.OrderRepository
	paymentRepo payment.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(orderRepo ordering.OrderRepository, paymentRepo payment.PaymentRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, paymentRepo: paymentRepo}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() ordering.OrderRepository {
	return s.orderRepo
}

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() payment.PaymentRepository {
	return s.paymentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/shared"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID with its splits
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrder returns all payments recorded against an order,
	// including voided ones
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// Save creates or updates a payment and its splits
	Save(ctx context.Context, p *Payment) error

	// SaveWithEvents saves the payment and persists domain events to the
	// outbox table in the same transaction
	SaveWithEvents(ctx context.Context, p *Payment, events []shared.DomainEvent) error

	// Count counts payments with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

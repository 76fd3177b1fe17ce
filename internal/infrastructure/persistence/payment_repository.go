package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/payment"
	"github.com/resto/backend/internal/domain/shared"
)

// GormPaymentRepository implements payment.PaymentRepository using GORM.
// Payments and their splits are append-only: a payment is voided in place,
// never deleted, so splits are only ever created alongside their payment.
type GormPaymentRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormPaymentRepository creates a new GORM-based payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// NewGormPaymentRepositoryWithOutbox creates a repository that writes domain
// events to the outbox table in the same transaction as the payment
func NewGormPaymentRepositoryWithOutbox(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormPaymentRepository {
	return &GormPaymentRepository{db: db, outboxSaver: outboxSaver}
}

// FindByID finds a payment by ID with its splits
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).
		Preload("Splits").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByOrder returns all payments recorded against an order, including voided ones
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.Payment, error) {
	var payments []payment.Payment
	err := r.db.WithContext(ctx).
		Preload("Splits").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment and its splits
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return r.save(ctx, p, nil)
}

// SaveWithEvents saves the payment and persists domain events to the outbox
// table in the same transaction
func (r *GormPaymentRepository) SaveWithEvents(ctx context.Context, p *payment.Payment, events []shared.DomainEvent) error {
	return r.save(ctx, p, events)
}

func (r *GormPaymentRepository) save(ctx context.Context, p *payment.Payment, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Splits").Save(p).Error; err != nil {
			return err
		}

		for i := range p.Splits {
			p.Splits[i].PaymentID = p.ID
			if err := tx.Save(&p.Splits[i]).Error; err != nil {
				return err
			}
		}

		// Save events to outbox within the same transaction
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// Count counts payments with optional filters
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&payment.Payment{})

	for key, value := range filter.Filters {
		switch key {
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "voided":
			if voided, ok := value.(bool); ok {
				query = query.Where("voided = ?", voided)
			}
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPaymentRepository implements the repository interface
var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)

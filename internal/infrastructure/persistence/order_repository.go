package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// terminalOrderStatuses are the statuses that close an order. A table can
// only carry one order outside of these.
var terminalOrderStatuses = []string{
	ordering.OrderStatusCompleted.String(),
	ordering.OrderStatusCancelled.String(),
}

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// NewGormOrderRepositoryWithOutbox creates a repository that writes domain
// events to the outbox table in the same transaction as the aggregate
func NewGormOrderRepositoryWithOutbox(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormOrderRepository {
	return &GormOrderRepository{db: db, outboxSaver: outboxSaver}
}

// FindByID finds an order by ID with its items and persons
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Persons").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindOpenByTable finds the non-terminal order for a table, if any
func (r *GormOrderRepository) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Persons").
		Where("table_id = ? AND status NOT IN ?", tableID, terminalOrderStatuses).
		Order("opened_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders with filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Preload("Items").Preload("Persons"),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOpen finds all non-terminal orders
func (r *GormOrderRepository) FindOpen(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).
			Preload("Items").
			Preload("Persons").
			Where("status NOT IN ?", terminalOrderStatuses),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders by status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).
			Preload("Items").
			Preload("Persons").
			Where("status = ?", status.String()),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its items and persons
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Persons").Save(order).Error; err != nil {
			return err
		}
		if err := r.syncItems(tx, order); err != nil {
			return err
		}
		return r.syncPersons(tx, order)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	return r.saveWithLock(ctx, order, nil)
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
// This implements the transactional outbox pattern - events are saved to the outbox table
// in the same transaction as the aggregate, ensuring guaranteed event delivery
func (r *GormOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	return r.saveWithLock(ctx, order, events)
}

func (r *GormOrderRepository) saveWithLock(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		result := tx.Model(&ordering.Order{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// New order: first persisted write
			if err := tx.Omit("Items", "Persons").Create(order).Error; err != nil {
				return err
			}
		} else {
			// Check version matches
			if currentVersion != order.Version {
				return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
			}

			// Increment version
			order.Version++
			order.UpdatedAt = time.Now()

			// Update order with version check
			update := tx.Model(&ordering.Order{}).
				Where("id = ? AND version = ?", order.ID, currentVersion).
				Updates(map[string]interface{}{
					"table_id":      order.TableID,
					"branch_id":     order.BranchID,
					"status":        order.Status,
					"subtotal":      order.Subtotal,
					"tax_amount":    order.TaxAmount,
					"total_amount":  order.TotalAmount,
					"notes":         order.Notes,
					"opened_at":     order.OpenedAt,
					"closed_at":     order.ClosedAt,
					"cancelled_at":  order.CancelledAt,
					"cancel_reason": order.CancelReason,
					"version":       order.Version,
					"updated_at":    order.UpdatedAt,
				})

			if update.Error != nil {
				return update.Error
			}

			if update.RowsAffected == 0 {
				return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
			}
		}

		if err := r.syncItems(tx, order); err != nil {
			return err
		}
		if err := r.syncPersons(tx, order); err != nil {
			return err
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

// syncItems replaces the stored item set with the aggregate's current items
func (r *GormOrderRepository) syncItems(tx *gorm.DB, order *ordering.Order) error {
	currentItemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		currentItemIDs[i] = order.Items[i].ID
	}

	// Delete items not in the current list
	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
			Delete(&ordering.OrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&ordering.OrderItem{}).Error; err != nil {
			return err
		}
	}

	// Save/update remaining items
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// syncPersons replaces the stored person set with the aggregate's current persons
func (r *GormOrderRepository) syncPersons(tx *gorm.DB, order *ordering.Order) error {
	currentPersonIDs := make([]uuid.UUID, len(order.Persons))
	for i := range order.Persons {
		currentPersonIDs[i] = order.Persons[i].ID
	}

	if len(currentPersonIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentPersonIDs).
			Delete(&ordering.Person{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&ordering.Person{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Persons {
		order.Persons[i].OrderID = order.ID
		if err := tx.Save(&order.Persons[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts orders with optional filters
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ordering.Order{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status ordering.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Where("status = ?", status.String()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		// Default ordering
		query = query.Order("opened_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "table_id":
			query = query.Where("table_id = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "open_only":
			if open, ok := value.(bool); ok && open {
				query = query.Where("status NOT IN ?", terminalOrderStatuses)
			}
		case "opened_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("opened_at >= ?", t)
			}
		case "opened_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("opened_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements the repository interface
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)

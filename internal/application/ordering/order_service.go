package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/shared/valueobject"
)

// OrderService handles the order lifecycle for table service
type OrderService struct {
	orderRepo        ordering.OrderRepository
	cancellationRepo ordering.CancellationRepository
	tableStore       ordering.TableStatusStore
	ledger           inventory.Ledger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	cancellationRepo ordering.CancellationRepository,
	tableStore ordering.TableStatusStore,
	ledger inventory.Ledger,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		cancellationRepo: cancellationRepo,
		tableStore:       tableStore,
		ledger:           ledger,
	}
}

// CreateOrUpdate adds pending items to the table's open order, opening a new
// order when the table has none. This is the single write path waiters use,
// so repeated taps on "add" converge on one active order per table.
func (s *OrderService) CreateOrUpdate(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindOpenByTable(ctx, req.TableID)
	opened := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		order, err = ordering.NewOrder(req.TableID, req.BranchID)
		if err != nil {
			return nil, err
		}
		opened = true
	}

	for _, item := range req.Items {
		unitPrice := valueobject.NewMoneyUSD(item.UnitPrice)
		if _, err := order.AddItem(
			item.ProductID,
			item.ProductName,
			item.Quantity,
			unitPrice,
			item.Discount,
			item.TaxRate,
			item.Notes,
		); err != nil {
			return nil, err
		}
	}

	// The table is claimed before the order row is written, so two waiters
	// racing on an empty table cannot both commit an open order. Re-occupying
	// with the same order is a no-op; a different order holding the table
	// surfaces as TABLE_OCCUPIED.
	if err := s.tableStore.Occupy(ctx, order.TableID, order.ID); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		if opened {
			_ = s.tableStore.Free(ctx, order.TableID)
		}
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddItems appends pending items to an existing order
func (s *OrderService) AddItems(ctx context.Context, orderID uuid.UUID, items []OrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		unitPrice := valueobject.NewMoneyUSD(item.UnitPrice)
		if _, err := order.AddItem(
			item.ProductID,
			item.ProductName,
			item.Quantity,
			unitPrice,
			item.Discount,
			item.TaxRate,
			item.Notes,
		); err != nil {
			return nil, err
		}
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItem updates a pending item's quantity, discount and notes
func (s *OrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdateItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItem(itemID, req.Quantity, req.Discount, req.Notes); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItemQuantity updates only the quantity of a pending item
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, req UpdateItemQuantityRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveItem deletes a pending item from the order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// MarkItemServed marks a ready item as delivered to the table
func (s *OrderService) MarkItemServed(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.MarkItemServed(itemID); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels a whole order. Once any item has progressed past Pending,
// a supervisor ID is required. Stock already deducted for sent items is
// restored through the ledger and an audit record is written.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.HasProgressed() && req.SupervisorID == nil {
		return nil, shared.ErrSupervisorRequired
	}

	needReversal, err := order.Cancel(req.Reason)
	if err != nil {
		return nil, err
	}

	for _, item := range needReversal {
		if _, err := s.ledger.Reverse(
			ctx,
			item.ProductID,
			order.BranchID,
			item.Quantity,
			item.ID,
			inventory.TransitionKindOrderCancel,
			&userID,
		); err != nil {
			return nil, err
		}
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	record, err := ordering.NewCancellationRecord(order, userID, req.SupervisorID, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.cancellationRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.tableStore.Free(ctx, order.TableID); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetOpenByTable retrieves the active order of a table
func (s *OrderService) GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindOpenByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if filter.TableID != nil {
		repoFilter.Filters["table_id"] = *filter.TableID
	}

	var (
		orders []ordering.Order
		err    error
	)
	switch {
	case filter.Status != "":
		status := ordering.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+filter.Status)
		}
		repoFilter.Filters["status"] = status.String()
		orders, err = s.orderRepo.FindByStatus(ctx, status, repoFilter)
	case filter.OpenOnly:
		repoFilter.Filters["open_only"] = true
		orders, err = s.orderRepo.FindOpen(ctx, repoFilter)
	default:
		orders, err = s.orderRepo.FindAll(ctx, repoFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// ListCancellations retrieves the cancellation audit trail for an order
func (s *OrderService) ListCancellations(ctx context.Context, orderID uuid.UUID) ([]ordering.CancellationRecord, error) {
	return s.cancellationRepo.FindByOrder(ctx, orderID)
}

// saveWithEvents persists the order and its domain events through the
// transactional outbox, then clears the pending events.
func (s *OrderService) saveWithEvents(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()
	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return err
	}
	order.ClearDomainEvents()
	return nil
}

package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderOpened           = "OrderOpened"
	EventTypeOrderStatusChanged    = "OrderStatusChanged"
	EventTypeOrderItemStatusChanged = "OrderItemStatusChanged"
	EventTypeOrderCompleted        = "OrderCompleted"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderOpenedEvent is raised when a new order is opened for a table
type OrderOpenedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	TableID  uuid.UUID `json:"table_id"`
	BranchID uuid.UUID `json:"branch_id"`
}

// NewOrderOpenedEvent creates a new OrderOpenedEvent
func NewOrderOpenedEvent(order *Order) *OrderOpenedEvent {
	return &OrderOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderOpened, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		TableID:         order.TableID,
		BranchID:        order.BranchID,
	}
}

// EventType returns the event type name
func (e *OrderOpenedEvent) EventType() string {
	return EventTypeOrderOpened
}

// OrderStatusChangedEvent is raised whenever the derived order status moves
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	TableID   uuid.UUID `json:"table_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		TableID:         order.TableID,
		OldStatus:       oldStatus.String(),
		NewStatus:       order.Status.String(),
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// OrderItemStatusChangedEvent is raised when a single item moves through the
// kitchen or is cancelled or served
type OrderItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	ItemID        uuid.UUID `json:"item_id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Status        string    `json:"status"`
	KitchenStatus string    `json:"kitchen_status"`
	Message       string    `json:"message"`
}

// NewOrderItemStatusChangedEvent creates a new OrderItemStatusChangedEvent
func NewOrderItemStatusChangedEvent(order *Order, item *OrderItem, message string) *OrderItemStatusChangedEvent {
	return &OrderItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ItemID:          item.ID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		Status:          item.Status.String(),
		KitchenStatus:   item.KitchenStat.String(),
		Message:         message,
	}
}

// EventType returns the event type name
func (e *OrderItemStatusChangedEvent) EventType() string {
	return EventTypeOrderItemStatusChanged
}

// OrderItemInfo represents item information carried in order events
type OrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderCompletedEvent is raised when an order is fully settled and closed
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	TableID     uuid.UUID       `json:"table_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		TableID:         order.TableID,
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCancelledEvent is raised when a whole order is cancelled.
// It carries a snapshot of the affected items for later stock reconciliation.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	TableID      uuid.UUID       `json:"table_id"`
	CancelReason string          `json:"cancel_reason"`
	Items        []OrderItemInfo `json:"items"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	items := make([]OrderItemInfo, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		TableID:         order.TableID,
		CancelReason:    order.CancelReason,
		Items:           items,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

package event

import (
	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Ordering domain events
	serializer.Register(ordering.EventTypeOrderOpened, &ordering.OrderOpenedEvent{})
	serializer.Register(ordering.EventTypeOrderStatusChanged, &ordering.OrderStatusChangedEvent{})
	serializer.Register(ordering.EventTypeOrderItemStatusChanged, &ordering.OrderItemStatusChangedEvent{})
	serializer.Register(ordering.EventTypeOrderCompleted, &ordering.OrderCompletedEvent{})
	serializer.Register(ordering.EventTypeOrderCancelled, &ordering.OrderCancelledEvent{})

	// Inventory domain events
	serializer.Register(inventory.EventTypeStockDeducted, &inventory.StockDeductedEvent{})
	serializer.Register(inventory.EventTypeStockRestored, &inventory.StockRestoredEvent{})
	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})

	// Payment domain events
	serializer.Register(payment.EventTypePaymentRecorded, &payment.PaymentRecordedEvent{})
	serializer.Register(payment.EventTypePaymentVoided, &payment.PaymentVoidedEvent{})
}

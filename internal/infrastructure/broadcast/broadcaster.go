package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
	"github.com/resto/backend/internal/domain/shared"
)

// Publisher pushes serialized messages to a subject
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Client-facing message payloads. These are the wire contracts consumed by
// the floor and kitchen terminals; keep them stable.

// OrderMessage notifies subscribers that an order's derived status moved
type OrderMessage struct {
	OrderID   uuid.UUID `json:"order_id"`
	TableID   uuid.UUID `json:"table_id"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemMessage notifies subscribers that a single item moved through the kitchen
type ItemMessage struct {
	OrderID       uuid.UUID `json:"order_id"`
	ItemID        uuid.UUID `json:"item_id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Status        string    `json:"status"`
	KitchenStatus string    `json:"kitchen_status"`
	Message       string    `json:"message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// TableMessage notifies subscribers that a table's occupancy changed
type TableMessage struct {
	TableID   uuid.UUID  `json:"table_id"`
	Occupied  bool       `json:"occupied"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// StockMessage notifies subscribers that on-hand stock changed
type StockMessage struct {
	ProductID uuid.UUID       `json:"product_id"`
	BranchID  uuid.UUID       `json:"branch_id"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Timestamp time.Time       `json:"timestamp"`
}

// PaymentMessage notifies subscribers that a payment was recorded or voided
type PaymentMessage struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method,omitempty"`
	Voided      bool            `json:"voided"`
	IsFullyPaid bool            `json:"is_fully_paid"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Broadcaster subscribes to the domain event bus and fans events out to the
// NATS subjects the terminals listen on. Subjects are derived from a
// configurable prefix:
//
//	<prefix>.orders              all order lifecycle changes
//	<prefix>.order.<id>          changes scoped to one order
//	<prefix>.tables              all table occupancy changes
//	<prefix>.table.<id>          changes scoped to one table
//	<prefix>.kitchen             per-item kitchen progress
//	<prefix>.stock               on-hand stock changes
type Broadcaster struct {
	publisher Publisher
	prefix    string
	logger    *zap.Logger
}

// NewBroadcaster creates a broadcaster publishing under the given subject prefix
func NewBroadcaster(publisher Publisher, prefix string, logger *zap.Logger) *Broadcaster {
	if prefix == "" {
		prefix = "pos"
	}
	return &Broadcaster{publisher: publisher, prefix: prefix, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (b *Broadcaster) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderOpened,
		ordering.EventTypeOrderStatusChanged,
		ordering.EventTypeOrderItemStatusChanged,
		ordering.EventTypeOrderCompleted,
		ordering.EventTypeOrderCancelled,
		inventory.EventTypeStockDeducted,
		inventory.EventTypeStockRestored,
		inventory.EventTypeStockAdjusted,
		payment.EventTypePaymentRecorded,
		payment.EventTypePaymentVoided,
	}
}

// Handle translates a domain event into client messages and publishes them
func (b *Broadcaster) Handle(ctx context.Context, event shared.DomainEvent) error {
	now := time.Now()

	switch e := event.(type) {
	case *ordering.OrderOpenedEvent:
		orderID := e.OrderID
		b.publishOrder(e.OrderID, OrderMessage{
			OrderID:   e.OrderID,
			TableID:   e.TableID,
			NewStatus: ordering.OrderStatusPending.String(),
			Timestamp: now,
		})
		b.publishTable(e.TableID, TableMessage{
			TableID:   e.TableID,
			Occupied:  true,
			OrderID:   &orderID,
			Timestamp: now,
		})

	case *ordering.OrderStatusChangedEvent:
		b.publishOrder(e.OrderID, OrderMessage{
			OrderID:   e.OrderID,
			TableID:   e.TableID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Timestamp: now,
		})

	case *ordering.OrderItemStatusChangedEvent:
		msg := ItemMessage{
			OrderID:       e.OrderID,
			ItemID:        e.ItemID,
			ProductID:     e.ProductID,
			ProductName:   e.ProductName,
			Status:        e.Status,
			KitchenStatus: e.KitchenStatus,
			Message:       e.Message,
			Timestamp:     now,
		}
		b.publish(b.subject("kitchen"), msg)
		b.publish(b.subject("order", e.OrderID.String()), msg)

	case *ordering.OrderCompletedEvent:
		b.publishOrder(e.OrderID, OrderMessage{
			OrderID:   e.OrderID,
			TableID:   e.TableID,
			NewStatus: ordering.OrderStatusCompleted.String(),
			Timestamp: now,
		})
		b.publishTable(e.TableID, TableMessage{
			TableID:   e.TableID,
			Occupied:  false,
			Timestamp: now,
		})

	case *ordering.OrderCancelledEvent:
		b.publishOrder(e.OrderID, OrderMessage{
			OrderID:   e.OrderID,
			TableID:   e.TableID,
			NewStatus: ordering.OrderStatusCancelled.String(),
			Timestamp: now,
		})
		b.publishTable(e.TableID, TableMessage{
			TableID:   e.TableID,
			Occupied:  false,
			Timestamp: now,
		})

	case *inventory.StockDeductedEvent:
		b.publish(b.subject("stock"), StockMessage{
			ProductID: e.ProductID,
			BranchID:  e.BranchID,
			OnHand:    e.NewStock,
			Timestamp: now,
		})

	case *inventory.StockRestoredEvent:
		b.publish(b.subject("stock"), StockMessage{
			ProductID: e.ProductID,
			BranchID:  e.BranchID,
			OnHand:    e.NewStock,
			Timestamp: now,
		})

	case *inventory.StockAdjustedEvent:
		b.publish(b.subject("stock"), StockMessage{
			ProductID: e.ProductID,
			BranchID:  e.BranchID,
			OnHand:    e.NewStock,
			Timestamp: now,
		})

	case *payment.PaymentRecordedEvent:
		b.publish(b.subject("order", e.OrderID.String()), PaymentMessage{
			PaymentID:   e.PaymentID,
			OrderID:     e.OrderID,
			Amount:      e.Amount,
			Method:      e.Method,
			IsFullyPaid: e.IsFullyPaid,
			Timestamp:   now,
		})

	case *payment.PaymentVoidedEvent:
		b.publish(b.subject("order", e.OrderID.String()), PaymentMessage{
			PaymentID: e.PaymentID,
			OrderID:   e.OrderID,
			Amount:    e.Amount,
			Voided:    true,
			Timestamp: now,
		})

	default:
		b.logger.Debug("no broadcast mapping for event",
			zap.String("event_type", event.EventType()))
	}

	return nil
}

func (b *Broadcaster) publishOrder(orderID uuid.UUID, msg OrderMessage) {
	b.publish(b.subject("orders"), msg)
	b.publish(b.subject("order", orderID.String()), msg)
}

func (b *Broadcaster) publishTable(tableID uuid.UUID, msg TableMessage) {
	b.publish(b.subject("tables"), msg)
	b.publish(b.subject("table", tableID.String()), msg)
}

func (b *Broadcaster) publish(subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal broadcast message",
			zap.String("subject", subject),
			zap.Error(err))
		return
	}

	if err := b.publisher.Publish(subject, data); err != nil {
		// Broadcast is best effort: terminals recover state over HTTP
		b.logger.Warn("failed to publish broadcast message",
			zap.String("subject", subject),
			zap.Error(err))
	}
}

func (b *Broadcaster) subject(parts ...string) string {
	subject := b.prefix
	for _, p := range parts {
		subject = fmt.Sprintf("%s.%s", subject, p)
	}
	return subject
}

// Ensure Broadcaster implements the event handler interface
var _ shared.EventHandler = (*Broadcaster)(nil)

package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentRecorded = "PaymentRecorded"
	EventTypePaymentVoided   = "PaymentVoided"
)

// PaymentRecordedEvent is raised when a payment is recorded against an order
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	IsShared    bool            `json:"is_shared"`
	IsFullyPaid bool            `json:"is_fully_paid"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent.
// isFullyPaid reflects the remaining balance after this payment was applied.
func NewPaymentRecordedEvent(p *Payment, isFullyPaid bool) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		Method:          p.Method.String(),
		IsShared:        p.Shared,
		IsFullyPaid:     isFullyPaid,
	}
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// PaymentVoidedEvent is raised when a payment is voided
type PaymentVoidedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentVoidedEvent creates a new PaymentVoidedEvent
func NewPaymentVoidedEvent(p *Payment) *PaymentVoidedEvent {
	return &PaymentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentVoided, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
	}
}

// EventType returns the event type name
func (e *PaymentVoidedEvent) EventType() string {
	return EventTypePaymentVoided
}

package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
)

// Method represents the payment method
type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodTransfer Method = "TRANSFER"
	MethodOther    Method = "OTHER"
)

// IsValid checks if the method is a valid payment method
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodOther:
		return true
	}
	return false
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// SplitTolerance is the maximum allowed difference between a shared payment's
// amount and the sum of its splits.
var SplitTolerance = decimal.NewFromFloat(0.01)

// SplitPayment is one named payer's share of a shared payment
type SplitPayment struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	Name      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (SplitPayment) TableName() string {
	return "payment_splits"
}

// SplitInput is the caller-supplied portion of a split
type SplitInput struct {
	Name   string
	Amount decimal.Decimal
}

// Payment represents one payment transaction against an order.
// Payments are append-only: they are voided in place and never deleted.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Method    Method
	Shared    bool
	PayerName string
	Voided    bool
	VoidedAt  *time.Time
	Splits    []SplitPayment
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a new payment. For shared payments the splits must sum
// to the payment amount within SplitTolerance; splits missing a name are
// labelled "Persona N" instead of being rejected.
func NewPayment(orderID uuid.UUID, amount decimal.Decimal, method Method, isShared bool, payerName string, splits []SplitInput) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
	if !isShared && len(splits) > 0 {
		return nil, shared.NewDomainError("INVALID_SPLITS", "Splits are only allowed on shared payments")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Amount:            amount,
		Method:            method,
		Shared:            isShared,
		PayerName:         payerName,
		Splits:            make([]SplitPayment, 0, len(splits)),
	}

	if isShared {
		if len(splits) == 0 {
			return nil, shared.NewDomainError("INVALID_SPLITS", "Shared payments require at least one split")
		}
		sum := decimal.Zero
		for _, s := range splits {
			if s.Amount.LessThanOrEqual(decimal.Zero) {
				return nil, shared.NewDomainError("INVALID_SPLIT_AMOUNT", "Split amounts must be positive")
			}
			sum = sum.Add(s.Amount)
		}
		if sum.Sub(amount).Abs().GreaterThan(SplitTolerance) {
			return nil, shared.NewDomainError("SPLIT_SUM_MISMATCH",
				fmt.Sprintf("Split amounts sum to %s, expected %s", sum.StringFixed(2), amount.StringFixed(2)))
		}
		now := time.Now()
		for idx, s := range splits {
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("Persona %d", idx+1)
			}
			p.Splits = append(p.Splits, SplitPayment{
				ID:        uuid.New(),
				PaymentID: p.ID,
				Name:      name,
				Amount:    s.Amount,
				CreatedAt: now,
			})
		}
	}

	return p, nil
}

// Void marks the payment voided. The row is retained but excluded from
// balance computation from now on.
func (p *Payment) Void() error {
	if p.Voided {
		return shared.NewDomainError("ALREADY_VOIDED", "Payment is already voided")
	}

	now := time.Now()
	p.Voided = true
	p.VoidedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentVoidedEvent(p))

	return nil
}

// CountsTowardBalance returns true for payments included in the balance
func (p *Payment) CountsTowardBalance() bool {
	return !p.Voided
}

// SplitTotal returns the sum of the split amounts
func (p *Payment) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/payment"
)

// SplitRequest is one named share of a shared payment.
// Unnamed shares get a default label when the payment is recorded.
type SplitRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPaymentRequest records a payment against an order
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	IsShared  bool            `json:"is_shared"`
	PayerName string          `json:"payer_name"`
	Splits    []SplitRequest  `json:"splits" binding:"omitempty,dive"`
}

// SplitResponse represents one share of a shared payment
type SplitResponse struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Shared    bool            `json:"shared"`
	PayerName string          `json:"payer_name,omitempty"`
	Voided    bool            `json:"voided"`
	VoidedAt  *time.Time      `json:"voided_at,omitempty"`
	Splits    []SplitResponse `json:"splits,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment to its API representation
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	splits := make([]SplitResponse, len(p.Splits))
	for i, s := range p.Splits {
		splits[i] = SplitResponse{ID: s.ID, Name: s.Name, Amount: s.Amount}
	}
	return PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method.String(),
		Shared:    p.Shared,
		PayerName: p.PayerName,
		Voided:    p.Voided,
		VoidedAt:  p.VoidedAt,
		Splits:    splits,
		CreatedAt: p.CreatedAt,
	}
}

// RecordPaymentResponse is the outcome of recording a payment
type RecordPaymentResponse struct {
	Payment          PaymentResponse `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	OrderCompleted   bool            `json:"order_completed"`
}

// BalanceResponse reports the outstanding balance of an order
type BalanceResponse struct {
	OrderID          uuid.UUID       `json:"order_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

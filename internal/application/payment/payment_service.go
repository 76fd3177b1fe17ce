package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
	"github.com/resto/backend/internal/domain/shared"
)

// PaymentService records and voids payments and settles orders once the
// balance reaches zero
type PaymentService struct {
	paymentRepo payment.PaymentRepository
	orderRepo   ordering.OrderRepository
	tableStore  ordering.TableStatusStore
	scope       TransactionScope
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	orderRepo ordering.OrderRepository,
	tableStore ordering.TableStatusStore,
	scope TransactionScope,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		tableStore:  tableStore,
		scope:       scope,
	}
}

// Record records a payment against an order. When the payment settles the
// remaining balance the order completes and its table is freed.
//
// The balance read, the order write and the payment insert run in one
// transaction, and the order row is written on every payment so its version
// moves. Of two concurrent payments recorded against the same balance, the
// second fails the version check and rolls back before its payment row is
// written.
func (s *PaymentService) Record(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	var (
		resp      *RecordPaymentResponse
		tableID   uuid.UUID
		completed bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsTerminal() {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payments on a %s order", order.Status))
		}

		remaining, _, err := outstandingBalance(ctx, repos.Payments(), order)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(remaining.Add(payment.SplitTolerance)) {
			return shared.ErrPaymentMismatch
		}

		splits := make([]payment.SplitInput, len(req.Splits))
		for i, split := range req.Splits {
			splits[i] = payment.SplitInput{Name: split.Name, Amount: split.Amount}
		}

		p, err := payment.NewPayment(order.ID, req.Amount, payment.Method(req.Method), req.IsShared, req.PayerName, splits)
		if err != nil {
			return err
		}

		newRemaining := remaining.Sub(req.Amount)
		fullyPaid := newRemaining.Abs().LessThanOrEqual(payment.SplitTolerance)

		if fullyPaid {
			if err := order.Complete(); err != nil {
				return err
			}
			newRemaining = decimal.Zero
		}
		if err := repos.Orders().SaveWithLockAndEvents(ctx, order, order.GetDomainEvents()); err != nil {
			return err
		}
		order.ClearDomainEvents()

		p.AddDomainEvent(payment.NewPaymentRecordedEvent(p, fullyPaid))
		if err := repos.Payments().SaveWithEvents(ctx, p, p.GetDomainEvents()); err != nil {
			return err
		}
		p.ClearDomainEvents()

		tableID = order.TableID
		completed = fullyPaid
		resp = &RecordPaymentResponse{
			Payment:          ToPaymentResponse(p),
			RemainingBalance: newRemaining,
			OrderCompleted:   fullyPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		if err := s.tableStore.Free(ctx, tableID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Void voids a payment. The payment row stays for the audit trail and stops
// counting toward the order balance. Voiding after the order completed does
// not reopen the order.
func (s *PaymentService) Void(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := p.Void(); err != nil {
		return nil, err
	}

	events := p.GetDomainEvents()
	if err := s.paymentRepo.SaveWithEvents(ctx, p, events); err != nil {
		return nil, err
	}
	p.ClearDomainEvents()

	response := ToPaymentResponse(p)
	return &response, nil
}

// ListByOrder returns every payment recorded for an order, voided included
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// RemainingBalance reports the outstanding balance of an order
func (s *PaymentService) RemainingBalance(ctx context.Context, orderID uuid.UUID) (*BalanceResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	remaining, paid, err := outstandingBalance(ctx, s.paymentRepo, order)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		OrderID:          order.ID,
		TotalAmount:      order.TotalAmount,
		PaidAmount:       paid,
		RemainingBalance: remaining,
	}, nil
}

// outstandingBalance computes the remaining balance from non-voided payments
func outstandingBalance(ctx context.Context, repo payment.PaymentRepository, order *ordering.Order) (remaining, paid decimal.Decimal, err error) {
	payments, err := repo.FindByOrder(ctx, order.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	paid = decimal.Zero
	for i := range payments {
		if payments[i].CountsTowardBalance() {
			paid = paid.Add(payments[i].Amount)
		}
	}
	return order.TotalAmount.Sub(paid), paid, nil
}

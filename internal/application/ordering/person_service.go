package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/ordering"
)

// PersonService handles diners and per-person bill splitting on an order
type PersonService struct {
	orderRepo ordering.OrderRepository
}

// NewPersonService creates a new PersonService
func NewPersonService(orderRepo ordering.OrderRepository) *PersonService {
	return &PersonService{orderRepo: orderRepo}
}

// Create adds a diner to an order
func (s *PersonService) Create(ctx context.Context, orderID uuid.UUID, req CreatePersonRequest) (*PersonResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	person, err := order.AddPerson(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToPersonResponse(person)
	return &response, nil
}

// Delete removes a diner from an order. Items assigned to the diner go back
// to the shared bucket.
func (s *PersonService) Delete(ctx context.Context, orderID, personID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := order.RemovePerson(personID); err != nil {
		return err
	}

	return s.saveWithEvents(ctx, order)
}

// AssignItem assigns an order item to a diner
func (s *PersonService) AssignItem(ctx context.Context, orderID, itemID uuid.UUID, req AssignItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.AssignItemToPerson(itemID, req.PersonID); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// MarkItemShared moves an item back to the shared bucket
func (s *PersonService) MarkItemShared(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.MarkItemShared(itemID); err != nil {
		return nil, err
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Totals computes each diner's share of the bill plus the shared remainder
func (s *PersonService) Totals(ctx context.Context, orderID uuid.UUID) ([]PersonTotalResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	totals := make([]PersonTotalResponse, 0, len(order.Persons)+1)
	for i := range order.Persons {
		person := &order.Persons[i]
		totals = append(totals, PersonTotalResponse{
			PersonID: person.ID,
			Name:     person.Name,
			Total:    order.TotalByPerson(person.ID),
		})
	}
	totals = append(totals, PersonTotalResponse{
		PersonID: uuid.Nil,
		Name:     "Shared",
		Total:    order.SharedTotal(),
	})
	return totals, nil
}

func (s *PersonService) saveWithEvents(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()
	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return err
	}
	order.ClearDomainEvents()
	return nil
}

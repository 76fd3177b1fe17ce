package ordering

import (
	"time"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/shared"
)

// Person represents a diner at the table, used for separate bills
type Person struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Person) TableName() string {
	return "order_persons"
}

// NewPerson creates a new person attached to an order
func NewPerson(orderID uuid.UUID, name string) (*Person, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PERSON_NAME", "Person name cannot be empty")
	}

	now := time.Now()
	return &Person{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the person's display name
func (p *Person) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PERSON_NAME", "Person name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

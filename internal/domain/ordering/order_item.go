package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/shared/valueobject"
)

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	StationID   *uuid.UUID // resolved when the item is sent to the kitchen
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // absolute discount on the line
	TaxRate     decimal.Decimal // e.g. 0.10 for 10%
	Notes       string
	Status      ItemStatus    `gorm:"type:varchar(20)"`
	KitchenStat KitchenStatus `gorm:"column:kitchen_status;type:varchar(20)"`
	PersonID    *uuid.UUID    // nil means the item is shared
	Shared      bool
	SentAt      *time.Time
	ReadyAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item in the Pending/Pending state
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money, discount, taxRate decimal.Decimal, notes string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    discount,
		TaxRate:     taxRate,
		Notes:       notes,
		Status:      StatePending.Status,
		KitchenStat: StatePending.KitchenStatus,
		Shared:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// State returns the combined item state
func (i *OrderItem) State() ItemState {
	return ItemState{Status: i.Status, KitchenStatus: i.KitchenStat}
}

func (i *OrderItem) setState(s ItemState) {
	i.Status = s.Status
	i.KitchenStat = s.KitchenStatus
	i.UpdatedAt = time.Now()
}

// IsPending returns true while the item has not been sent to the kitchen
func (i *OrderItem) IsPending() bool {
	return i.State() == StatePending
}

// IsCancelled returns true for cancelled items
func (i *OrderItem) IsCancelled() bool {
	return i.State().IsCancelled()
}

// IsActive returns true for items that contribute to totals
func (i *OrderItem) IsActive() bool {
	return i.State().IsActive()
}

// NetAmount returns quantity*unitPrice - discount
func (i *OrderItem) NetAmount() decimal.Decimal {
	net := i.Quantity.Mul(i.UnitPrice).Sub(i.Discount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// TaxAmount returns the tax computed on the net amount
func (i *OrderItem) TaxAmount() decimal.Decimal {
	return i.NetAmount().Mul(i.TaxRate).Round(2)
}

// GrossAmount returns net plus tax
func (i *OrderItem) GrossAmount() decimal.Decimal {
	return i.NetAmount().Add(i.TaxAmount())
}

// UpdateQuantity updates the item quantity.
// Only allowed while the item has not been sent to the kitchen.
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if !i.IsPending() {
		return shared.ErrItemLocked
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Update updates the mutable fields of a pending item
func (i *OrderItem) Update(quantity, discount decimal.Decimal, notes string) error {
	if !i.IsPending() {
		return shared.ErrItemLocked
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	i.Quantity = quantity
	i.Discount = discount
	i.Notes = notes
	i.UpdatedAt = time.Now()
	return nil
}

// MarkSent advances the item to the Sent state and records the station
// and sent timestamp. Sending an already sent item is rejected.
func (i *OrderItem) MarkSent(stationID uuid.UUID) error {
	if !i.State().CanTransitionTo(StateSent) {
		return shared.NewDomainError("INVALID_STATE", "Item cannot be sent in its current state")
	}
	now := time.Now()
	i.StationID = &stationID
	i.SentAt = &now
	i.setState(StateSent)
	return nil
}

// MarkPreparing advances the kitchen status to Preparing.
// Repeated or backward calls return false without error.
func (i *OrderItem) MarkPreparing() (bool, error) {
	if i.State().AtOrPast(KitchenStatusPreparing) {
		return false, nil
	}
	if !i.State().CanTransitionTo(StatePreparing) {
		return false, kitchenProgressError(i)
	}
	i.setState(StatePreparing)
	return true, nil
}

// MarkReady advances the kitchen status to Ready.
// Repeated or backward calls return false without error.
func (i *OrderItem) MarkReady() (bool, error) {
	if i.State().AtOrPast(KitchenStatusReady) {
		return false, nil
	}
	if !i.State().CanTransitionTo(StateReady) {
		return false, kitchenProgressError(i)
	}
	now := time.Now()
	i.ReadyAt = &now
	i.setState(StateReady)
	return true, nil
}

// kitchenProgressError explains why an item cannot advance on the kitchen axis
func kitchenProgressError(i *OrderItem) error {
	if i.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cancelled items cannot move through the kitchen")
	}
	return shared.NewDomainError("INVALID_STATE", "Item has not been sent to the kitchen")
}

// MarkServed marks a ready item as served to the table
func (i *OrderItem) MarkServed() error {
	if !i.State().CanTransitionTo(StateServed) {
		return shared.NewDomainError("INVALID_STATE", "Only ready items can be served")
	}
	i.setState(StateServed)
	return nil
}

// Cancel marks the item cancelled on both axes.
// It returns true if stock had already been deducted for the item, in which
// case the caller must issue a compensating reversal.
func (i *OrderItem) Cancel() (bool, error) {
	if !i.State().CanTransitionTo(StateCancelled) {
		return false, shared.NewDomainError("INVALID_STATE", "Item cannot be cancelled in its current state")
	}
	wasSent := i.State().AtOrPast(KitchenStatusSent)
	i.setState(StateCancelled)
	return wasSent, nil
}

// AssignToPerson assigns the item to a single person for separate billing
func (i *OrderItem) AssignToPerson(personID uuid.UUID) error {
	if personID == uuid.Nil {
		return shared.NewDomainError("INVALID_PERSON", "Person ID cannot be empty")
	}
	if i.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a cancelled item")
	}
	i.PersonID = &personID
	i.Shared = false
	i.UpdatedAt = time.Now()
	return nil
}

// MarkShared flags the item as shared by the whole table
func (i *OrderItem) MarkShared() {
	i.PersonID = nil
	i.Shared = true
	i.UpdatedAt = time.Now()
}

// GetUnitPriceMoney returns the unit price as Money value object
func (i *OrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice)
}

// GetGrossAmountMoney returns the gross amount as Money value object
func (i *OrderItem) GetGrossAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.GrossAmount())
}

package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusSentToKitchen OrderStatus = "SENT_TO_KITCHEN"
	OrderStatusPreparing     OrderStatus = "PREPARING"
	OrderStatusReady         OrderStatus = "READY"
	OrderStatusReadyToPay    OrderStatus = "READY_TO_PAY"
	OrderStatusServed        OrderStatus = "SERVED"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusSentToKitchen, OrderStatusPreparing, OrderStatusReady,
		OrderStatusReadyToPay, OrderStatusServed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for completed and cancelled orders
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order represents a table order aggregate root.
// It owns the order items and diners of one table visit and derives its own
// status and totals from the item states.
type Order struct {
	shared.BaseAggregateRoot
	TableID      uuid.UUID
	BranchID     uuid.UUID
	Status       OrderStatus
	Items        []OrderItem
	Persons      []Person
	Subtotal     decimal.Decimal // sum of net amounts of active items
	TaxAmount    decimal.Decimal // sum of per-item tax of active items
	TotalAmount  decimal.Decimal // Subtotal + TaxAmount
	Notes        string
	OpenedAt     time.Time
	ClosedAt     *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder opens a new order for a table
func NewOrder(tableID, branchID uuid.UUID) (*Order, error) {
	if tableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TABLE", "Table ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TableID:           tableID,
		BranchID:          branchID,
		Status:            OrderStatusPending,
		Items:             make([]OrderItem, 0),
		Persons:           make([]Person, 0),
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		TotalAmount:       decimal.Zero,
		OpenedAt:          time.Now(),
	}

	order.AddDomainEvent(NewOrderOpenedEvent(order))

	return order, nil
}

// AddItem adds a new line to the order in the Pending/Pending state
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money, discount, taxRate decimal.Decimal, notes string) (*OrderItem, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to a %s order", o.Status))
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitPrice, discount, taxRate, notes)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.refreshStatus()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of a pending item
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a closed order")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// UpdateItem updates the mutable fields of a pending item
func (o *Order) UpdateItem(itemID uuid.UUID, quantity, discount decimal.Decimal, notes string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a closed order")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.Update(quantity, discount, notes); err != nil {
		return err
	}
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// RemoveItem removes a pending item from the order.
// Items already sent to the kitchen can only be cancelled, never removed.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a closed order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if !o.Items[idx].IsPending() {
				return shared.ErrItemLocked
			}
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.refreshStatus()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// PendingItems returns the items that have not yet been sent to the kitchen
func (o *Order) PendingItems() []*OrderItem {
	pending := make([]*OrderItem, 0)
	for idx := range o.Items {
		if o.Items[idx].IsPending() {
			pending = append(pending, &o.Items[idx])
		}
	}
	return pending
}

// MarkItemSent advances an item to the Sent state with its resolved station
func (o *Order) MarkItemSent(itemID, stationID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot send items of a closed order")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.MarkSent(stationID); err != nil {
		return err
	}

	o.AddDomainEvent(NewOrderItemStatusChangedEvent(o, item, "sent to kitchen"))
	o.refreshStatus()
	o.UpdatedAt = time.Now()
	return nil
}

// MarkItemPreparing advances an item's kitchen status to Preparing.
// Returns false when the call was a no-op (already preparing or beyond).
func (o *Order) MarkItemPreparing(itemID uuid.UUID) (bool, error) {
	item := o.GetItem(itemID)
	if item == nil {
		return false, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}

	changed, err := item.MarkPreparing()
	if err != nil || !changed {
		return changed, err
	}

	o.AddDomainEvent(NewOrderItemStatusChangedEvent(o, item, "preparing"))
	o.refreshStatus()
	o.UpdatedAt = time.Now()
	return true, nil
}

// MarkItemReady advances an item's kitchen status to Ready.
// Returns false when the call was a no-op.
func (o *Order) MarkItemReady(itemID uuid.UUID) (bool, error) {
	item := o.GetItem(itemID)
	if item == nil {
		return false, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}

	changed, err := item.MarkReady()
	if err != nil || !changed {
		return changed, err
	}

	o.AddDomainEvent(NewOrderItemStatusChangedEvent(o, item, "ready"))
	o.refreshStatus()
	o.UpdatedAt = time.Now()
	return true, nil
}

// MarkItemServed marks a ready item as served
func (o *Order) MarkItemServed(itemID uuid.UUID) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.MarkServed(); err != nil {
		return err
	}

	o.AddDomainEvent(NewOrderItemStatusChangedEvent(o, item, "served"))
	o.refreshStatus()
	o.UpdatedAt = time.Now()
	return nil
}

// CancelItem cancels a single item on both axes. Single-item cancellation
// stops once the kitchen finished the item; from Ready on it can only be
// served or cancelled together with the whole order.
// It returns true when stock had already been deducted for the item.
func (o *Order) CancelItem(itemID uuid.UUID) (bool, error) {
	if o.Status.IsTerminal() {
		return false, shared.NewDomainError("INVALID_STATE", "Cannot cancel items of a closed order")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return false, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}

	if item.State().AtOrPast(KitchenStatusReady) {
		return false, shared.NewDomainError("INVALID_STATE", "Prepared items can only be served or cancelled with the whole order")
	}

	wasSent, err := item.Cancel()
	if err != nil {
		return false, err
	}

	o.AddDomainEvent(NewOrderItemStatusChangedEvent(o, item, "cancelled"))
	o.recalculateTotals()
	o.refreshStatus()
	o.UpdatedAt = time.Now()
	return wasSent, nil
}

// HasProgressed returns true once any item has left the Pending/Pending state
func (o *Order) HasProgressed() bool {
	for idx := range o.Items {
		if !o.Items[idx].IsPending() {
			return true
		}
	}
	return false
}

// Cancel cancels the whole order. Items not yet terminal are cancelled with
// it. The caller is responsible for the supervisor gate and for reversing
// stock of items reported in the returned slice.
func (o *Order) Cancel(reason string) ([]*OrderItem, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	needReversal := make([]*OrderItem, 0)
	for idx := range o.Items {
		item := &o.Items[idx]
		if item.State().IsTerminal() {
			continue
		}
		wasSent, err := item.Cancel()
		if err != nil {
			return nil, err
		}
		if wasSent {
			needReversal = append(needReversal, item)
		}
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.recalculateTotals()
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))
	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return needReversal, nil
}

// Complete closes a fully settled order
func (o *Order) Complete() error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusCompleted
	o.ClosedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))
	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// AddPerson adds a diner to the order
func (o *Order) AddPerson(name string) (*Person, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add persons to a closed order")
	}

	person, err := NewPerson(o.ID, name)
	if err != nil {
		return nil, err
	}

	o.Persons = append(o.Persons, *person)
	o.UpdatedAt = time.Now()
	return person, nil
}

// RemovePerson deletes a diner and moves their items back to shared
func (o *Order) RemovePerson(personID uuid.UUID) error {
	for idx := range o.Persons {
		if o.Persons[idx].ID == personID {
			o.Persons = append(o.Persons[:idx], o.Persons[idx+1:]...)
			for i := range o.Items {
				if o.Items[i].PersonID != nil && *o.Items[i].PersonID == personID {
					o.Items[i].MarkShared()
				}
			}
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("PERSON_NOT_FOUND", "Person not found in order")
}

// AssignItemToPerson assigns an item to one of the order's diners
func (o *Order) AssignItemToPerson(itemID, personID uuid.UUID) error {
	if o.GetPerson(personID) == nil {
		return shared.NewDomainError("PERSON_NOT_FOUND", "Person not found in order")
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.AssignToPerson(personID); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	return nil
}

// MarkItemShared moves an item back to the shared bucket
func (o *Order) MarkItemShared(itemID uuid.UUID) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	item.MarkShared()
	o.UpdatedAt = time.Now()
	return nil
}

// TotalByPerson returns the gross total of the items assigned to one diner
func (o *Order) TotalByPerson(personID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		item := &o.Items[idx]
		if !item.IsActive() {
			continue
		}
		if item.PersonID != nil && *item.PersonID == personID {
			total = total.Add(item.GrossAmount())
		}
	}
	return total
}

// SharedTotal returns the gross total of shared (unassigned) items
func (o *Order) SharedTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		item := &o.Items[idx]
		if !item.IsActive() {
			continue
		}
		if item.PersonID == nil {
			total = total.Add(item.GrossAmount())
		}
	}
	return total
}

// recalculateTotals recomputes subtotal, tax and total from active items
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for idx := range o.Items {
		item := &o.Items[idx]
		if !item.IsActive() {
			continue
		}
		subtotal = subtotal.Add(item.NetAmount())
		tax = tax.Add(item.TaxAmount())
	}
	o.Subtotal = subtotal
	o.TaxAmount = tax
	o.TotalAmount = subtotal.Add(tax)
}

// refreshStatus derives the order status from the aggregate of item states.
// Terminal statuses are set only by Cancel and Complete.
func (o *Order) refreshStatus() {
	if o.Status.IsTerminal() {
		return
	}

	derived := o.deriveStatus()
	if derived == o.Status {
		return
	}

	oldStatus := o.Status
	o.Status = derived
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))
}

func (o *Order) deriveStatus() OrderStatus {
	var active, served, kitchenReady, anyReady, anyPreparing, anySent int
	for idx := range o.Items {
		item := &o.Items[idx]
		if !item.IsActive() {
			continue
		}
		active++
		if item.Status == ItemStatusServed {
			served++
		}
		if item.State().AtOrPast(KitchenStatusReady) {
			kitchenReady++
		}
		switch item.KitchenStat {
		case KitchenStatusReady:
			anyReady++
		case KitchenStatusPreparing:
			anyPreparing++
		case KitchenStatusSent:
			anySent++
		}
	}

	switch {
	case active == 0:
		return OrderStatusPending
	case served == active:
		return OrderStatusServed
	case kitchenReady == active:
		return OrderStatusReadyToPay
	case anyReady > 0:
		return OrderStatusReady
	case anyPreparing > 0:
		return OrderStatusPreparing
	case anySent > 0:
		return OrderStatusSentToKitchen
	default:
		return OrderStatusPending
	}
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// ActiveItemCount returns the number of non-cancelled items
func (o *Order) ActiveItemCount() int {
	count := 0
	for idx := range o.Items {
		if o.Items[idx].IsActive() {
			count++
		}
	}
	return count
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetPerson returns a person by ID
func (o *Order) GetPerson(personID uuid.UUID) *Person {
	for idx := range o.Persons {
		if o.Persons[idx].ID == personID {
			return &o.Persons[idx]
		}
	}
	return nil
}

package ordering

// ItemStatus represents the front-of-house status of an order item
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "PENDING"
	ItemStatusPreparing ItemStatus = "PREPARING"
	ItemStatusReady     ItemStatus = "READY"
	ItemStatusServed    ItemStatus = "SERVED"
	ItemStatusCancelled ItemStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed, ItemStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// KitchenStatus represents the fulfillment status of an order item
type KitchenStatus string

const (
	KitchenStatusPending   KitchenStatus = "PENDING"
	KitchenStatusSent      KitchenStatus = "SENT"
	KitchenStatusPreparing KitchenStatus = "PREPARING"
	KitchenStatusReady     KitchenStatus = "READY"
	KitchenStatusCancelled KitchenStatus = "CANCELLED"
)

// IsValid checks if the status is a valid KitchenStatus
func (s KitchenStatus) IsValid() bool {
	switch s {
	case KitchenStatusPending, KitchenStatusSent, KitchenStatusPreparing, KitchenStatusReady, KitchenStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of KitchenStatus
func (s KitchenStatus) String() string {
	return string(s)
}

// rank orders kitchen statuses along the fulfillment axis.
// Cancelled is terminal and sits outside the ordering.
func (s KitchenStatus) rank() int {
	switch s {
	case KitchenStatusPending:
		return 0
	case KitchenStatusSent:
		return 1
	case KitchenStatusPreparing:
		return 2
	case KitchenStatusReady:
		return 3
	}
	return -1
}

// ItemState couples the front-of-house status and the kitchen status of one
// item into a single state value. Both axes always move together through the
// transition table below, so illegal combinations (e.g. Served before the
// kitchen finished) cannot be constructed.
type ItemState struct {
	Status        ItemStatus
	KitchenStatus KitchenStatus
}

// Item state constants
var (
	StatePending   = ItemState{ItemStatusPending, KitchenStatusPending}
	StateSent      = ItemState{ItemStatusPending, KitchenStatusSent}
	StatePreparing = ItemState{ItemStatusPreparing, KitchenStatusPreparing}
	StateReady     = ItemState{ItemStatusReady, KitchenStatusReady}
	StateServed    = ItemState{ItemStatusServed, KitchenStatusReady}
	StateCancelled = ItemState{ItemStatusCancelled, KitchenStatusCancelled}
)

// itemTransitions is the allowed-transition table for the combined state
// machine. The kitchen axis is forward-only; Cancelled is reachable from every
// non-served state and never exited.
var itemTransitions = map[ItemState][]ItemState{
	StatePending:   {StateSent, StateCancelled},
	StateSent:      {StatePreparing, StateReady, StateCancelled},
	StatePreparing: {StateReady, StateCancelled},
	StateReady:     {StateServed, StateCancelled},
	StateServed:    {},
	StateCancelled: {},
}

// CanTransitionTo checks if the state can transition to the target state
func (s ItemState) CanTransitionTo(target ItemState) bool {
	for _, next := range itemTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s ItemState) IsTerminal() bool {
	return len(itemTransitions[s]) == 0
}

// IsCancelled returns true for the cancelled state
func (s ItemState) IsCancelled() bool {
	return s == StateCancelled
}

// IsActive returns true for states that contribute to totals
func (s ItemState) IsActive() bool {
	return s != StateCancelled
}

// AtOrPast returns true if the kitchen axis has reached the target status.
// It is used to decide whether a repeated forward call is a no-op.
func (s ItemState) AtOrPast(target KitchenStatus) bool {
	if s.KitchenStatus == KitchenStatusCancelled {
		return false
	}
	return s.KitchenStatus.rank() >= target.rank()
}

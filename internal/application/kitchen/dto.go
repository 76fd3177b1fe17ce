package kitchen

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SentItemResult describes one item successfully dispatched to its station
type SentItemResult struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	StationID   uuid.UUID       `json:"station_id"`
}

// FailedItemResult describes one item that could not be dispatched.
// Code carries the domain error code, typically INSUFFICIENT_STOCK.
type FailedItemResult struct {
	ItemID      uuid.UUID `json:"item_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Code        string    `json:"code"`
	Reason      string    `json:"reason"`
}

// SendResult is the outcome of a batch send. A batch where some items fail
// is still a success for the items that went through.
type SendResult struct {
	OrderID     uuid.UUID          `json:"order_id"`
	OrderStatus string             `json:"order_status"`
	Sent        []SentItemResult   `json:"sent"`
	Failed      []FailedItemResult `json:"failed"`
}

// AllFailed returns true when nothing in the batch was dispatched
func (r *SendResult) AllFailed() bool {
	return len(r.Sent) == 0 && len(r.Failed) > 0
}

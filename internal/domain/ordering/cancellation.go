package ordering

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/shared"
)

// CancellationRecord is the append-only audit entry written when a whole
// order is cancelled. ItemsSnapshot holds the serialized affected products
// for later stock reconciliation.
type CancellationRecord struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	TableID       uuid.UUID
	UserID        uuid.UUID
	SupervisorID  *uuid.UUID
	Reason        string
	ItemsSnapshot []byte `gorm:"type:jsonb"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (CancellationRecord) TableName() string {
	return "order_cancellations"
}

// NewCancellationRecord builds a cancellation record from the cancelled order
func NewCancellationRecord(order *Order, userID uuid.UUID, supervisorID *uuid.UUID, reason string) (*CancellationRecord, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	snapshot := make([]OrderItemInfo, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		snapshot[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	return &CancellationRecord{
		ID:            uuid.New(),
		OrderID:       order.ID,
		TableID:       order.TableID,
		UserID:        userID,
		SupervisorID:  supervisorID,
		Reason:        reason,
		ItemsSnapshot: payload,
		CreatedAt:     time.Now(),
	}, nil
}

// Snapshot deserializes the items snapshot
func (r *CancellationRecord) Snapshot() ([]OrderItemInfo, error) {
	var items []OrderItemInfo
	if err := json.Unmarshal(r.ItemsSnapshot, &items); err != nil {
		return nil, err
	}
	return items, nil
}

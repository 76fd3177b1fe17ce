package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// InMemoryTableStatusStore implements TableStatusStore using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryTableStatusStore struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]uuid.UUID // tableID -> orderID
}

// NewInMemoryTableStatusStore creates a new in-memory table status store
func NewInMemoryTableStatusStore() *InMemoryTableStatusStore {
	return &InMemoryTableStatusStore{
		tables: make(map[uuid.UUID]uuid.UUID),
	}
}

// Occupy marks a table as occupied by an order
func (s *InMemoryTableStatusStore) Occupy(ctx context.Context, tableID, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, exists := s.tables[tableID]; exists && current != orderID {
		return shared.ErrTableOccupied
	}
	s.tables[tableID] = orderID
	return nil
}

// Free releases a table
func (s *InMemoryTableStatusStore) Free(ctx context.Context, tableID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables, tableID)
	return nil
}

// OccupiedBy returns the order currently holding a table, if any
func (s *InMemoryTableStatusStore) OccupiedBy(ctx context.Context, tableID uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orderID, exists := s.tables[tableID]
	return orderID, exists, nil
}

// Ensure InMemoryTableStatusStore implements TableStatusStore
var _ ordering.TableStatusStore = (*InMemoryTableStatusStore)(nil)

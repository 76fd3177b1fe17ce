package kitchen

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOpen(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status ordering.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockStationResolver is a mock implementation of ordering.StationResolver
type MockStationResolver struct {
	mock.Mock
}

func (m *MockStationResolver) Resolve(ctx context.Context, productID, branchID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, productID, branchID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockLedger is a mock implementation of inventory.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Deduct(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind inventory.TransitionKind, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, productID, branchID, quantity, orderItemID, kind, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockLedger) Reverse(ctx context.Context, productID, branchID uuid.UUID, quantity decimal.Decimal, orderItemID uuid.UUID, kind inventory.TransitionKind, operatorID *uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, productID, branchID, quantity, orderItemID, kind, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func newServiceUnderTest(t *testing.T) (*KitchenService, *MockOrderRepository, *MockStationResolver, *MockLedger) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	resolver := new(MockStationResolver)
	ledger := new(MockLedger)
	service := NewKitchenService(orderRepo, resolver, ledger)
	return service, orderRepo, resolver, ledger
}

func openOrderWithItems(t *testing.T, count int) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		_, err := order.AddItem(uuid.New(), "Dish", decimal.NewFromInt(1), valueobject.NewMoneyUSDFromFloat(10.00), decimal.Zero, decimal.Zero, "")
		require.NoError(t, err)
	}
	order.ClearDomainEvents()
	return order
}

func TestKitchenService_SendPendingItems(t *testing.T) {
	ctx := context.Background()
	operatorID := uuid.New()

	t.Run("dispatches all pending items", func(t *testing.T) {
		service, orderRepo, resolver, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 2)
		stationID := uuid.New()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		resolver.On("Resolve", ctx, mock.Anything, order.BranchID).Return(stationID, nil)
		ledger.On("Deduct", ctx, mock.Anything, order.BranchID, mock.Anything, mock.Anything, inventory.TransitionKindKitchenSend, &operatorID).
			Return(&inventory.StockMovement{}, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil)

		result, err := service.SendPendingItems(ctx, order.ID, operatorID)
		require.NoError(t, err)

		assert.Len(t, result.Sent, 2)
		assert.Empty(t, result.Failed)
		assert.Equal(t, ordering.OrderStatusSentToKitchen.String(), result.OrderStatus)
		for idx := range order.Items {
			assert.Equal(t, ordering.KitchenStatusSent, order.Items[idx].KitchenStat)
			require.NotNil(t, order.Items[idx].StationID)
			assert.Equal(t, stationID, *order.Items[idx].StationID)
		}
	})

	t.Run("no pending items is a no-op", func(t *testing.T) {
		service, orderRepo, _, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)
		require.NoError(t, order.MarkItemSent(order.Items[0].ID, uuid.New()))
		order.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		result, err := service.SendPendingItems(ctx, order.ID, operatorID)
		require.NoError(t, err)

		assert.Empty(t, result.Sent)
		assert.Empty(t, result.Failed)
		ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		orderRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock fails the item and sends the rest", func(t *testing.T) {
		service, orderRepo, resolver, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 2)
		short := order.Items[0]
		ok := order.Items[1]
		stationID := uuid.New()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		resolver.On("Resolve", ctx, mock.Anything, order.BranchID).Return(stationID, nil)
		ledger.On("Deduct", ctx, short.ProductID, order.BranchID, mock.Anything, short.ID, inventory.TransitionKindKitchenSend, &operatorID).
			Return(nil, shared.ErrInsufficientStock)
		ledger.On("Deduct", ctx, ok.ProductID, order.BranchID, mock.Anything, ok.ID, inventory.TransitionKindKitchenSend, &operatorID).
			Return(&inventory.StockMovement{}, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil)

		result, err := service.SendPendingItems(ctx, order.ID, operatorID)
		require.NoError(t, err)

		require.Len(t, result.Failed, 1)
		assert.Equal(t, short.ID, result.Failed[0].ItemID)
		assert.Equal(t, "INSUFFICIENT_STOCK", result.Failed[0].Code)
		require.Len(t, result.Sent, 1)
		assert.Equal(t, ok.ID, result.Sent[0].ItemID)

		assert.True(t, order.GetItem(short.ID).IsPending())
		assert.Equal(t, ordering.KitchenStatusSent, order.GetItem(ok.ID).KitchenStat)
	})

	t.Run("unresolvable station fails the item without touching stock", func(t *testing.T) {
		service, orderRepo, resolver, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		resolver.On("Resolve", ctx, mock.Anything, order.BranchID).
			Return(uuid.Nil, shared.NewDomainError("STATION_NOT_FOUND", "No station configured for product"))

		result, err := service.SendPendingItems(ctx, order.ID, operatorID)
		require.NoError(t, err)

		require.Len(t, result.Failed, 1)
		assert.Equal(t, "STATION_NOT_FOUND", result.Failed[0].Code)
		ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestKitchenService_MarkItemPreparing(t *testing.T) {
	ctx := context.Background()

	t.Run("advances and saves once", func(t *testing.T) {
		service, orderRepo, _, _ := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)
		itemID := order.Items[0].ID
		require.NoError(t, order.MarkItemSent(itemID, uuid.New()))
		order.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil).Once()

		resp, err := service.MarkItemPreparing(ctx, order.ID, itemID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusPreparing.String(), resp.Status)

		// second call is a no-op and does not save again
		_, err = service.MarkItemPreparing(ctx, order.ID, itemID)
		require.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects items never sent", func(t *testing.T) {
		service, orderRepo, _, _ := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := service.MarkItemPreparing(ctx, order.ID, order.Items[0].ID)
		require.Error(t, err)
	})
}

func TestKitchenService_MarkItemReady(t *testing.T) {
	ctx := context.Background()
	service, orderRepo, _, _ := newServiceUnderTest(t)
	order := openOrderWithItems(t, 1)
	itemID := order.Items[0].ID
	require.NoError(t, order.MarkItemSent(itemID, uuid.New()))
	order.ClearDomainEvents()

	orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil).Once()

	resp, err := service.MarkItemReady(ctx, order.ID, itemID)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusReadyToPay.String(), resp.Status)

	// repeated call converges without another save
	_, err = service.MarkItemReady(ctx, order.ID, itemID)
	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestKitchenService_CancelItem(t *testing.T) {
	ctx := context.Background()
	operatorID := uuid.New()

	t.Run("pending item cancels without stock reversal", func(t *testing.T) {
		service, orderRepo, _, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil)

		_, err := service.CancelItem(ctx, order.ID, order.Items[0].ID, operatorID)
		require.NoError(t, err)
		ledger.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sent item reverses its deduction", func(t *testing.T) {
		service, orderRepo, _, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)
		item := &order.Items[0]
		require.NoError(t, order.MarkItemSent(item.ID, uuid.New()))
		order.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		ledger.On("Reverse", ctx, item.ProductID, order.BranchID, item.Quantity, item.ID, inventory.TransitionKindItemCancel, &operatorID).
			Return(&inventory.StockMovement{}, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil)

		resp, err := service.CancelItem(ctx, order.ID, item.ID, operatorID)
		require.NoError(t, err)

		assert.Equal(t, ordering.ItemStatusCancelled.String(), resp.Items[0].Status)
		ledger.AssertExpectations(t)
	})

	t.Run("ready item stays out of single-item cancel", func(t *testing.T) {
		service, orderRepo, _, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)
		item := &order.Items[0]
		require.NoError(t, order.MarkItemSent(item.ID, uuid.New()))
		_, err := order.MarkItemReady(item.ID)
		require.NoError(t, err)
		order.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err = service.CancelItem(ctx, order.ID, item.ID, operatorID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		ledger.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("aborts the save when the reversal fails", func(t *testing.T) {
		service, orderRepo, _, ledger := newServiceUnderTest(t)
		order := openOrderWithItems(t, 1)
		item := &order.Items[0]
		require.NoError(t, order.MarkItemSent(item.ID, uuid.New()))
		order.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		ledger.On("Reverse", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		_, err := service.CancelItem(ctx, order.ID, item.ID, operatorID)
		assert.ErrorIs(t, err, assert.AnError)
		orderRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})
}

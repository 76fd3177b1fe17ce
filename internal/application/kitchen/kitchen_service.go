package kitchen

import (
	"context"
	"errors"

	"github.com/google/uuid"

	appordering "github.com/resto/backend/internal/application/ordering"
	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// KitchenService coordinates the kitchen side of an order: dispatching
// pending items to their stations, tracking preparation progress and
// cancelling single items.
type KitchenService struct {
	orderRepo       ordering.OrderRepository
	stationResolver ordering.StationResolver
	ledger          inventory.Ledger
}

// NewKitchenService creates a new KitchenService
func NewKitchenService(
	orderRepo ordering.OrderRepository,
	stationResolver ordering.StationResolver,
	ledger inventory.Ledger,
) *KitchenService {
	return &KitchenService{
		orderRepo:       orderRepo,
		stationResolver: stationResolver,
		ledger:          ledger,
	}
}

// SendPendingItems dispatches every pending item of an order to the kitchen.
// The batch tolerates partial failure: an item whose stock cannot be
// deducted is reported in Failed and the rest of the batch proceeds.
// Calling with no pending items is a no-op.
func (s *KitchenService) SendPendingItems(ctx context.Context, orderID uuid.UUID, operatorID uuid.UUID) (*SendResult, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &SendResult{
		OrderID: order.ID,
		Sent:    make([]SentItemResult, 0),
		Failed:  make([]FailedItemResult, 0),
	}

	pending := order.PendingItems()
	if len(pending) == 0 {
		result.OrderStatus = order.Status.String()
		return result, nil
	}

	for _, item := range pending {
		stationID, err := s.stationResolver.Resolve(ctx, item.ProductID, order.BranchID)
		if err != nil {
			result.Failed = append(result.Failed, failedItem(item, err))
			continue
		}

		if _, err := s.ledger.Deduct(
			ctx,
			item.ProductID,
			order.BranchID,
			item.Quantity,
			item.ID,
			inventory.TransitionKindKitchenSend,
			&operatorID,
		); err != nil {
			result.Failed = append(result.Failed, failedItem(item, err))
			continue
		}

		if err := order.MarkItemSent(item.ID, stationID); err != nil {
			// Stock is already deducted; the unique transition marker makes
			// a retried send converge instead of deducting twice.
			result.Failed = append(result.Failed, failedItem(item, err))
			continue
		}

		result.Sent = append(result.Sent, SentItemResult{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			StationID:   stationID,
		})
	}

	if len(result.Sent) > 0 {
		if err := s.saveWithEvents(ctx, order); err != nil {
			return nil, err
		}
	}

	result.OrderStatus = order.Status.String()
	return result, nil
}

// MarkItemPreparing records that a station started preparing an item.
// Repeated or out-of-order calls are ignored.
func (s *KitchenService) MarkItemPreparing(ctx context.Context, orderID, itemID uuid.UUID) (*appordering.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	changed, err := order.MarkItemPreparing(itemID)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.saveWithEvents(ctx, order); err != nil {
			return nil, err
		}
	}

	response := appordering.ToOrderResponse(order)
	return &response, nil
}

// MarkItemReady records that an item finished preparation.
// Repeated or out-of-order calls are ignored.
func (s *KitchenService) MarkItemReady(ctx context.Context, orderID, itemID uuid.UUID) (*appordering.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	changed, err := order.MarkItemReady(itemID)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.saveWithEvents(ctx, order); err != nil {
			return nil, err
		}
	}

	response := appordering.ToOrderResponse(order)
	return &response, nil
}

// CancelItem cancels a single order item. Stock already deducted for the
// item is restored before the order is saved.
func (s *KitchenService) CancelItem(ctx context.Context, orderID, itemID uuid.UUID, operatorID uuid.UUID) (*appordering.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasSent, err := order.CancelItem(itemID)
	if err != nil {
		return nil, err
	}

	if wasSent {
		item := order.GetItem(itemID)
		if _, err := s.ledger.Reverse(
			ctx,
			item.ProductID,
			order.BranchID,
			item.Quantity,
			item.ID,
			inventory.TransitionKindItemCancel,
			&operatorID,
		); err != nil {
			return nil, err
		}
	}

	if err := s.saveWithEvents(ctx, order); err != nil {
		return nil, err
	}

	response := appordering.ToOrderResponse(order)
	return &response, nil
}

func (s *KitchenService) saveWithEvents(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()
	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return err
	}
	order.ClearDomainEvents()
	return nil
}

func failedItem(item *ordering.OrderItem, err error) FailedItemResult {
	code := "INTERNAL_ERROR"
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	return FailedItemResult{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Code:        code,
		Reason:      err.Error(),
	}
}

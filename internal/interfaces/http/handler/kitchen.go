package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	kitchenapp "github.com/resto/backend/internal/application/kitchen"
	orderapp "github.com/resto/backend/internal/application/ordering"
)

// KitchenHandler handles kitchen coordination API endpoints
type KitchenHandler struct {
	BaseHandler
	kitchenService *kitchenapp.KitchenService
	orderService   *orderapp.OrderService
}

// NewKitchenHandler creates a new KitchenHandler
func NewKitchenHandler(kitchenService *kitchenapp.KitchenService, orderService *orderapp.OrderService) *KitchenHandler {
	return &KitchenHandler{
		kitchenService: kitchenService,
		orderService:   orderService,
	}
}

// Send dispatches every pending item of an order to its kitchen station.
// The response reports sent and failed items separately; a batch where only
// some items fail still returns 200.
func (h *KitchenHandler) Send(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	result, err := h.kitchenService.SendPendingItems(c.Request.Context(), orderID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPreparing records that a station started preparing an item
func (h *KitchenHandler) MarkPreparing(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	order, err := h.kitchenService.MarkItemPreparing(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkReady records that an item finished preparation
func (h *KitchenHandler) MarkReady(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	order, err := h.kitchenService.MarkItemReady(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkServed records that a ready item was delivered to the table
func (h *KitchenHandler) MarkServed(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	order, err := h.orderService.MarkItemServed(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// CancelItem cancels a single order item, restoring stock already deducted
func (h *KitchenHandler) CancelItem(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	order, err := h.kitchenService.CancelItem(c.Request.Context(), orderID, itemID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *KitchenHandler) ids(c *gin.Context) (orderID, itemID uuid.UUID, ok bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err = uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return orderID, itemID, true
}

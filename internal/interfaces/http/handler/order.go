package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/resto/backend/internal/application/ordering"
)

// OrderHandler handles order lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create opens an order for a table, or merges the requested items into the
// table's open order when one exists.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrUpdate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// List returns orders filtered by status, table or open-only, paginated
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID returns a single order with its items and persons
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByTable returns the active order of a table
func (h *OrderHandler) GetByTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("tableId"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	order, err := h.orderService.GetOpenByTable(c.Request.Context(), tableID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddItems appends pending items to an existing order
func (h *OrderHandler) AddItems(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req struct {
		Items []orderapp.OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddItems(c.Request.Context(), orderID, req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem updates a pending item's quantity, discount and notes
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, itemID, ok := h.orderAndItemIDs(c)
	if !ok {
		return
	}

	var req orderapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItemQuantity updates only the quantity of a pending item
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	orderID, itemID, ok := h.orderAndItemIDs(c)
	if !ok {
		return
	}

	var req orderapp.UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request.Context(), orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem deletes a pending item from an order
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, itemID, ok := h.orderAndItemIDs(c)
	if !ok {
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels a whole order with an audit reason. Orders with items past
// Pending require a supervisor ID in the request.
func (h *OrderHandler) Cancel(c *gin.Context) {
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

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ListCancellations returns the cancellation audit trail for an order
func (h *OrderHandler) ListCancellations(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	records, err := h.orderService.ListCancellations(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

func (h *OrderHandler) orderAndItemIDs(c *gin.Context) (orderID, itemID uuid.UUID, ok bool) {
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

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/resto/backend/internal/application/ordering"
)

// PersonHandler handles per-diner bill splitting API endpoints
type PersonHandler struct {
	BaseHandler
	personService *orderapp.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personService *orderapp.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// Create adds a diner to an order
func (h *PersonHandler) Create(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	person, err := h.personService.Create(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, person)
}

// Delete removes a diner from an order. Items assigned to the diner go back
// to the shared bucket.
func (h *PersonHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	personID, err := uuid.Parse(c.Param("personId"))
	if err != nil {
		h.BadRequest(c, "Invalid person ID format")
		return
	}

	if err := h.personService.Delete(c.Request.Context(), orderID, personID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignItem assigns an order item to a diner
func (h *PersonHandler) AssignItem(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	var req orderapp.AssignItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.personService.AssignItem(c.Request.Context(), orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkShared moves an item back to the shared bucket
func (h *PersonHandler) MarkShared(c *gin.Context) {
	orderID, itemID, ok := h.ids(c)
	if !ok {
		return
	}

	order, err := h.personService.MarkItemShared(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Totals computes each diner's share of the bill plus the shared remainder
func (h *PersonHandler) Totals(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	totals, err := h.personService.Totals(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

func (h *PersonHandler) ids(c *gin.Context) (orderID, itemID uuid.UUID, ok bool) {
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

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/resto/backend/internal/application/inventory"
	"github.com/resto/backend/internal/domain/shared"
)

// StockHandler handles stock level and movement log API endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *inventoryapp.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *inventoryapp.StockLedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// EnsureStockItemRequest provisions tracking for a product at a branch
type EnsureStockItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	BranchID      uuid.UUID `json:"branch_id" binding:"required"`
	AllowNegative bool      `json:"allow_negative"`
}

// Ensure provisions a stock item for a product-branch pair. Calling it for an
// already tracked pair returns the existing item.
func (h *StockHandler) Ensure(c *gin.Context) {
	var req EnsureStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.ledgerService.EnsureStockItem(c.Request.Context(), req.ProductID, req.BranchID, req.AllowNegative)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, inventoryapp.ToStockItemResponse(item))
}

// Get returns the stock level of a product at a branch
func (h *StockHandler) Get(c *gin.Context) {
	productID, branchID, ok := h.productAndBranch(c)
	if !ok {
		return
	}

	item, err := h.ledgerService.GetStock(c.Request.Context(), productID, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Movements returns the movement log of a product at a branch, newest first
func (h *StockHandler) Movements(c *gin.Context) {
	productID, branchID, ok := h.productAndBranch(c)
	if !ok {
		return
	}

	var query struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	movements, err := h.ledgerService.GetMovements(c.Request.Context(), productID, branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// Adjust records a manual stock correction to a counted quantity.
// The route is supervisor gated.
func (h *StockHandler) Adjust(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.ledgerService.Adjust(c.Request.Context(), req.ProductID, req.BranchID, req.ActualQuantity, req.Reason, &userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, inventoryapp.ToStockMovementResponse(movement))
}

func (h *StockHandler) productAndBranch(c *gin.Context) (productID, branchID uuid.UUID, ok bool) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return uuid.Nil, uuid.Nil, false
	}

	if branchIDStr := c.Query("branch_id"); branchIDStr != "" {
		branchID, err = uuid.Parse(branchIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid branch ID format")
			return uuid.Nil, uuid.Nil, false
		}
		return productID, branchID, true
	}

	// Default to the caller's branch from the JWT claims
	branchID, err = getBranchID(c)
	if err != nil {
		h.BadRequest(c, "Branch ID is required")
		return uuid.Nil, uuid.Nil, false
	}
	return productID, branchID, true
}

package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/ordering"
)

// OrderItemRequest represents one line requested by a waiter
type OrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Notes       string          `json:"notes"`
}

// CreateOrderRequest opens an order for a table or merges pending items into
// the table's open order
type CreateOrderRequest struct {
	TableID  uuid.UUID          `json:"table_id" binding:"required"`
	BranchID uuid.UUID          `json:"branch_id" binding:"required"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateItemRequest updates a pending item
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Discount decimal.Decimal `json:"discount"`
	Notes    string          `json:"notes"`
}

// UpdateItemQuantityRequest updates only the quantity of a pending item
type UpdateItemQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CancelOrderRequest cancels a whole order
type CancelOrderRequest struct {
	Reason       string     `json:"reason" binding:"required"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
}

// CreatePersonRequest adds a diner to an order
type CreatePersonRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssignItemRequest assigns an item to a diner
type AssignItemRequest struct {
	PersonID uuid.UUID `json:"person_id" binding:"required"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	StationID     *uuid.UUID      `json:"station_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	KitchenStatus string          `json:"kitchen_status"`
	PersonID      *uuid.UUID      `json:"person_id,omitempty"`
	Shared        bool            `json:"shared"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
	ReadyAt       *time.Time      `json:"ready_at,omitempty"`
}

// ToOrderItemResponse converts an order item to its API representation
func ToOrderItemResponse(item *ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		StationID:     item.StationID,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		Discount:      item.Discount,
		TaxRate:       item.TaxRate,
		NetAmount:     item.NetAmount(),
		TaxAmount:     item.TaxAmount(),
		GrossAmount:   item.GrossAmount(),
		Notes:         item.Notes,
		Status:        item.Status.String(),
		KitchenStatus: item.KitchenStat.String(),
		PersonID:      item.PersonID,
		Shared:        item.Shared,
		SentAt:        item.SentAt,
		ReadyAt:       item.ReadyAt,
	}
}

// PersonResponse represents a diner in API responses
type PersonResponse struct {
	ID      uuid.UUID `json:"id"`
	OrderID uuid.UUID `json:"order_id"`
	Name    string    `json:"name"`
}

// ToPersonResponse converts a person to its API representation
func ToPersonResponse(p *ordering.Person) PersonResponse {
	return PersonResponse{
		ID:      p.ID,
		OrderID: p.OrderID,
		Name:    p.Name,
	}
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	TableID     uuid.UUID           `json:"table_id"`
	BranchID    uuid.UUID           `json:"branch_id"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	Persons     []PersonResponse    `json:"persons"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	TaxAmount   decimal.Decimal     `json:"tax_amount"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	OpenedAt    time.Time           `json:"opened_at"`
	ClosedAt    *time.Time          `json:"closed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	Version     int                 `json:"version"`
}

// ToOrderResponse converts an order to its API representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToOrderItemResponse(&order.Items[i])
	}
	persons := make([]PersonResponse, len(order.Persons))
	for i := range order.Persons {
		persons[i] = ToPersonResponse(&order.Persons[i])
	}
	return OrderResponse{
		ID:          order.ID,
		TableID:     order.TableID,
		BranchID:    order.BranchID,
		Status:      order.Status.String(),
		Items:       items,
		Persons:     persons,
		Subtotal:    order.Subtotal,
		TaxAmount:   order.TaxAmount,
		TotalAmount: order.TotalAmount,
		OpenedAt:    order.OpenedAt,
		ClosedAt:    order.ClosedAt,
		CancelledAt: order.CancelledAt,
		Version:     order.Version,
	}
}

// PersonTotalResponse represents one diner's share of the bill
type PersonTotalResponse struct {
	PersonID uuid.UUID       `json:"person_id"`
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status   string     `form:"status"`
	TableID  *uuid.UUID `form:"table_id"`
	OpenOnly bool       `form:"open_only"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

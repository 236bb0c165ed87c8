package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type OrderLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	MenuItemID *uuid.UUID      `json:"menuItemId,omitempty"`
	ItemName   string          `json:"itemName"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"orderNumber"`
	CustomerID       *uuid.UUID          `json:"customerId,omitempty"`
	CustomerName     string              `json:"customerName"`
	CustomerEmail    string              `json:"customerEmail"`
	Status           string              `json:"status"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	Notes            string              `json:"notes,omitempty"`
	PaymentReference string              `json:"paymentReference,omitempty"`
	Lines            []OrderLineResponse `json:"lines"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	LineCount     int             `json:"lineCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	var resp OrderResponse
	_ = copier.Copy(&resp, view)
	if resp.Lines == nil {
		resp.Lines = []OrderLineResponse{}
	}
	return &resp
}

func FromOrderListItems(items []*queries.OrderListItem) []*OrderListItemResponse {
	resp := make([]*OrderListItemResponse, len(items))
	for i, item := range items {
		var r OrderListItemResponse
		_ = copier.Copy(&r, item)
		resp[i] = &r
	}
	return resp
}

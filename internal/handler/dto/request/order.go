package request

import (
	"calmtable/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest covers both catalog items (menu_item_id set, name and price
// taken from the catalog) and ad-hoc items (name and unit_price required).
type CartItemRequest struct {
	MenuItemID *uuid.UUID       `json:"menu_item_id,omitempty"`
	ItemName   string           `json:"item_name,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	Quantity   int              `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	Notes         string            `json:"notes"`
	Items         []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r PlaceOrderRequest) ToInput(customerID *uuid.UUID) commands.PlaceOrderInput {
	items := make([]commands.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, commands.CartItem{
			MenuItemID: item.MenuItemID,
			ItemName:   item.ItemName,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}
	return commands.PlaceOrderInput{
		CustomerID:    customerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
		Items:         items,
	}
}

package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type MenuItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	IsFeatured  bool            `json:"isFeatured"`
	DietaryTags []string        `json:"dietaryTags"`
	AvgRating   *float64        `json:"avgRating,omitempty"`
	ReviewCount int             `json:"reviewCount"`
	OrderCount  int             `json:"orderCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func FromMenuItemView(view *queries.MenuItemView) *MenuItemResponse {
	var resp MenuItemResponse
	_ = copier.Copy(&resp, view)
	if resp.DietaryTags == nil {
		resp.DietaryTags = []string{}
	}
	return &resp
}

func FromMenuItemViews(views []*queries.MenuItemView) []*MenuItemResponse {
	resp := make([]*MenuItemResponse, len(views))
	for i, view := range views {
		resp[i] = FromMenuItemView(view)
	}
	return resp
}

package request

import (
	"calmtable/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type MenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	ImageURL    string          `json:"image_url"`
	DietaryTags []string        `json:"dietary_tags"`
}

func (r MenuItemRequest) ToInput() commands.MenuItemInput {
	return commands.MenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		DietaryTags: r.DietaryTags,
	}
}

type SetFlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

package request

import (
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Comment    string    `json:"comment"`
}

package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menuItemId"`
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromReviewView(view *queries.ReviewView) *ReviewResponse {
	var resp ReviewResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReviewViews(views []*queries.ReviewView) []*ReviewResponse {
	resp := make([]*ReviewResponse, len(views))
	for i, view := range views {
		resp[i] = FromReviewView(view)
	}
	return resp
}

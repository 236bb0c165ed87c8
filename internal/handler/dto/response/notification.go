package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	OrderID   *uuid.UUID     `json:"orderId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

func FromNotificationViews(views []*queries.NotificationView) []*NotificationResponse {
	resp := make([]*NotificationResponse, len(views))
	for i, view := range views {
		var r NotificationResponse
		_ = copier.Copy(&r, view)
		resp[i] = &r
	}
	return resp
}

package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PopularItemResponse struct {
	MenuItemID    uuid.UUID       `json:"menuItemId"`
	Name          string          `json:"name"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

type AnalyticsSummaryResponse struct {
	From              time.Time             `json:"from"`
	To                time.Time             `json:"to"`
	TotalOrders       int                   `json:"totalOrders"`
	TotalRevenue      decimal.Decimal       `json:"totalRevenue"`
	OrdersByStatus    []StatusCountResponse `json:"ordersByStatus"`
	TotalReservations int                   `json:"totalReservations"`
	PopularItems      []PopularItemResponse `json:"popularItems"`
}

func FromAnalyticsSummary(summary *queries.AnalyticsSummary) *AnalyticsSummaryResponse {
	var resp AnalyticsSummaryResponse
	_ = copier.Copy(&resp, summary)
	if resp.OrdersByStatus == nil {
		resp.OrdersByStatus = []StatusCountResponse{}
	}
	if resp.PopularItems == nil {
		resp.PopularItems = []PopularItemResponse{}
	}
	return &resp
}

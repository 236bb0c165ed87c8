package readstore

import (
	"context"
	"time"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type AnalyticsReadStore struct {
	db db.DBTX
}

func NewAnalyticsReadStore(db db.DBTX) *AnalyticsReadStore {
	return &AnalyticsReadStore{db: db}
}

// Summarize runs the dashboard aggregates in one read-only pass. Cancelled
// orders count toward volume but not revenue.
func (s *AnalyticsReadStore) Summarize(ctx context.Context, from, to time.Time) (*queries.AnalyticsSummary, error) {
	summary := &queries.AnalyticsSummary{From: from, To: to}

	var revenue pgtype.Numeric
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2`,
		pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to),
	).Scan(&summary.TotalOrders, &revenue)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to summarize orders", err)
	}
	if summary.TotalRevenue, err = pgconv.DecimalFromPgtype(revenue); err != nil {
		return nil, infra.WrapRepoErr("invalid revenue total", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
		ORDER BY status`,
		pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count orders by status", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc queries.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan status count", err)
		}
		summary.OrdersByStatus = append(summary.OrdersByStatus, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate status counts", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM reservations
		WHERE created_at >= $1 AND created_at < $2`,
		pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to),
	).Scan(&summary.TotalReservations)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count reservations", err)
	}

	popular, err := s.popularItems(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary.PopularItems = popular
	return summary, nil
}

func (s *AnalyticsReadStore) popularItems(ctx context.Context, from, to time.Time) ([]queries.PopularItem, error) {
	const query = `
		SELECT m.id, m.name, SUM(ol.quantity),
		       SUM(ol.unit_price * ol.quantity)::numeric(10,2)
		FROM order_lines ol
		JOIN menu_items m ON m.id = ol.menu_item_id
		JOIN orders o ON o.id = ol.order_id
		WHERE o.created_at >= $1 AND o.created_at < $2 AND o.status <> 'cancelled'
		GROUP BY m.id, m.name
		ORDER BY SUM(ol.quantity) DESC
		LIMIT 10`

	rows, err := s.db.Query(ctx, query, pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rank popular items", err)
	}
	defer rows.Close()

	items := []queries.PopularItem{}
	for rows.Next() {
		var (
			item    queries.PopularItem
			revenue pgtype.Numeric
		)
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.TotalQuantity, &revenue); err != nil {
			return nil, infra.WrapRepoErr("failed to scan popular item", err)
		}
		if item.TotalRevenue, err = pgconv.DecimalFromPgtype(revenue); err != nil {
			return nil, infra.WrapRepoErr("invalid item revenue", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate popular items", err)
	}
	return items, nil
}

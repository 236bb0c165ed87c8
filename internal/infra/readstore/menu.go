package readstore

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// menuSelect joins review and order aggregates so a single listing query
// carries ratings and popularity.
const menuSelect = `
	SELECT m.id, m.name, m.description, m.price, m.category, m.image_url,
	       m.is_available, m.is_featured, m.dietary_tags,
	       AVG(r.rating)::float8 AS avg_rating,
	       COUNT(DISTINCT r.id) AS review_count,
	       COALESCE(SUM(ol.quantity), 0) AS order_count,
	       m.created_at, m.updated_at
	FROM menu_items m
	LEFT JOIN reviews r ON r.menu_item_id = m.id
	LEFT JOIN order_lines ol ON ol.menu_item_id = m.id`

const menuGroup = ` GROUP BY m.id`

type MenuReadStore struct {
	db db.DBTX
}

func NewMenuReadStore(db db.DBTX) *MenuReadStore {
	return &MenuReadStore{db: db}
}

func (s *MenuReadStore) Find(ctx context.Context, filter queries.MenuFilter) ([]*queries.MenuItemView, error) {
	query := menuSelect + `
	WHERE ($1::text IS NULL OR m.category = $1)
	  AND ($2::boolean IS NULL OR m.is_available = $2)
	  AND ($3::boolean IS NULL OR m.is_featured = $3)` +
		menuGroup + `
	ORDER BY m.category, m.name`

	rows, err := s.db.Query(ctx, query, filter.Category, filter.IsAvailable, filter.IsFeatured)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list menu items", err)
	}
	return collectMenuViews(rows)
}

func (s *MenuReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.MenuItemView, error) {
	row := s.db.QueryRow(ctx, menuSelect+` WHERE m.id = $1`+menuGroup, id)
	view, err := scanMenuView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find menu item", err)
	}
	return view, nil
}

func (s *MenuReadStore) FindBestOrdered(ctx context.Context, limit int) ([]*queries.MenuItemView, error) {
	query := menuSelect + `
	WHERE m.is_available` +
		menuGroup + `
	ORDER BY COALESCE(SUM(ol.quantity), 0) DESC, m.name
	LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rank menu items", err)
	}
	return collectMenuViews(rows)
}

// SnapshotByID is the command-side read: just enough to price a cart line.
func (s *MenuReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.MenuItemSnapshot, error) {
	var (
		snap  shared.MenuItemSnapshot
		price pgtype.Numeric
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, name, price, is_available FROM menu_items WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.Name, &price, &snap.IsAvailable)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find menu item", err)
	}
	snap.Price, err = pgconv.DecimalFromPgtype(price)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid menu item price", err)
	}
	return &snap, nil
}

func collectMenuViews(rows pgx.Rows) ([]*queries.MenuItemView, error) {
	defer rows.Close()

	views := []*queries.MenuItemView{}
	for rows.Next() {
		view, err := scanMenuView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan menu item", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate menu items", err)
	}
	return views, nil
}

func scanMenuView(row pgx.Row) (*queries.MenuItemView, error) {
	var (
		view      queries.MenuItemView
		price     pgtype.Numeric
		avgRating pgtype.Float8
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Name, &view.Description, &price, &view.Category, &view.ImageURL,
		&view.IsAvailable, &view.IsFeatured, &view.DietaryTags,
		&avgRating, &view.ReviewCount, &view.OrderCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.Price, err = pgconv.DecimalFromPgtype(price)
	if err != nil {
		return nil, err
	}
	if avgRating.Valid {
		view.AvgRating = &avgRating.Float64
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

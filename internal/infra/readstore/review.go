package readstore

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reviewSelect = `
	SELECT r.id, r.menu_item_id, r.user_id, u.username, r.rating, r.comment, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(db db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: db}
}

func (s *ReviewReadStore) FindByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]*queries.ReviewView, error) {
	rows, err := s.db.Query(ctx,
		reviewSelect+` WHERE r.menu_item_id = $1 ORDER BY r.created_at DESC`,
		menuItemID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reviews", err)
	}
	return collectReviewViews(rows)
}

func (s *ReviewReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*queries.ReviewView, error) {
	rows, err := s.db.Query(ctx,
		reviewSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`,
		userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user reviews", err)
	}
	return collectReviewViews(rows)
}

func collectReviewViews(rows pgx.Rows) ([]*queries.ReviewView, error) {
	defer rows.Close()

	views := []*queries.ReviewView{}
	for rows.Next() {
		var (
			view      queries.ReviewView
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(&view.ID, &view.MenuItemID, &view.UserID, &view.UserName,
			&view.Rating, &view.Comment, &createdAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan review", err)
		}
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reviews", err)
	}
	return views, nil
}

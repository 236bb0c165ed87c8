package repository

import (
	"context"

	"calmtable/internal/domain/review"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"

	"github.com/google/uuid"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// Create relies on the unique (menu_item_id, user_id) index; a second review
// for the same item surfaces as DUPLICATE_KEY.
func (r *ReviewRepository) Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error) {
	const query = `
		INSERT INTO reviews (id, menu_item_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		rev.ID(),
		rev.MenuItemID(),
		rev.UserID(),
		rev.Rating().Int(),
		rev.Comment().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}
	return id, nil
}

func (r *ReviewRepository) OwnerOf(ctx context.Context, tx db.DBTX, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := tx.QueryRow(ctx, `SELECT user_id FROM reviews WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to find review owner", err)
	}
	return owner, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("review not found", nil, infra.KindNotFound)
	}
	return nil
}

package repository

import (
	"context"

	"calmtable/internal/domain/menu"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type MenuRepository struct{}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

func (r *MenuRepository) Create(ctx context.Context, tx db.DBTX, item *menu.Item) (uuid.UUID, error) {
	const query = `
		INSERT INTO menu_items (
			id, name, description, price, category, image_url,
			is_available, is_featured, dietary_tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		pgconv.DecimalToPgtype(item.Price),
		string(item.Category),
		item.ImageURL,
		item.IsAvailable,
		item.IsFeatured,
		item.DietaryTags,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create menu item", err)
	}
	return id, nil
}

func (r *MenuRepository) Update(ctx context.Context, tx db.DBTX, item *menu.Item) error {
	const query = `
		UPDATE menu_items SET
			name = $2, description = $3, price = $4, category = $5,
			image_url = $6, dietary_tags = $7, updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		pgconv.DecimalToPgtype(item.Price),
		string(item.Category),
		item.ImageURL,
		item.DietaryTags,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("menu item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("menu item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *MenuRepository) SetAvailability(ctx context.Context, tx db.DBTX, id uuid.UUID, available bool) error {
	tag, err := tx.Exec(ctx,
		`UPDATE menu_items SET is_available = $2, updated_at = NOW() WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set menu item availability", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("menu item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *MenuRepository) SetFeatured(ctx context.Context, tx db.DBTX, id uuid.UUID, featured bool) error {
	tag, err := tx.Exec(ctx,
		`UPDATE menu_items SET is_featured = $2, updated_at = NOW() WHERE id = $1`,
		id, featured,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set menu item featured flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("menu item not found", nil, infra.KindNotFound)
	}
	return nil
}

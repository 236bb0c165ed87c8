package queries

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"

	"github.com/google/uuid"
)

// MenuFilter narrows the public menu listing. Nil fields mean "any".
type MenuFilter struct {
	Category    *string
	IsAvailable *bool
	IsFeatured  *bool
}

type MenuQueries interface {
	List(ctx context.Context, filter MenuFilter) ([]*MenuItemView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MenuItemView, error)
	Featured(ctx context.Context) ([]*MenuItemView, error)
	// BestOrdered ranks available items by total quantity across order lines.
	BestOrdered(ctx context.Context, limit int) ([]*MenuItemView, error)
}

type MenuViewRepo interface {
	Find(ctx context.Context, filter MenuFilter) ([]*MenuItemView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*MenuItemView, error)
	FindBestOrdered(ctx context.Context, limit int) ([]*MenuItemView, error)
}

type menuQueriesImpl struct {
	repo MenuViewRepo
}

func NewMenuQueries(repo MenuViewRepo) MenuQueries {
	return &menuQueriesImpl{repo: repo}
}

func (q *menuQueriesImpl) List(ctx context.Context, filter MenuFilter) ([]*MenuItemView, error) {
	return q.repo.Find(ctx, filter)
}

func (q *menuQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*MenuItemView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *menuQueriesImpl) Featured(ctx context.Context) ([]*MenuItemView, error) {
	featured := true
	available := true
	return q.repo.Find(ctx, MenuFilter{IsFeatured: &featured, IsAvailable: &available})
}

func (q *menuQueriesImpl) BestOrdered(ctx context.Context, limit int) ([]*MenuItemView, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return q.repo.FindBestOrdered(ctx, limit)
}

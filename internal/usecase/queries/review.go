package queries

import (
	"context"

	"github.com/google/uuid"
)

type ReviewQueries interface {
	ListByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]*ReviewView, error)
	ListMine(ctx context.Context, actor Actor) ([]*ReviewView, error)
}

type ReviewViewRepo interface {
	FindByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]*ReviewView, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*ReviewView, error)
}

type reviewQueriesImpl struct {
	repo ReviewViewRepo
}

func NewReviewQueries(repo ReviewViewRepo) ReviewQueries {
	return &reviewQueriesImpl{repo: repo}
}

func (q *reviewQueriesImpl) ListByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]*ReviewView, error) {
	return q.repo.FindByMenuItem(ctx, menuItemID)
}

func (q *reviewQueriesImpl) ListMine(ctx context.Context, actor Actor) ([]*ReviewView, error) {
	return q.repo.FindByUser(ctx, actor.ID)
}

package queries

import (
	"context"

	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*OrderView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListMine(ctx context.Context, actor Actor) ([]*OrderListItem, error)
	// ListAll is the staff dashboard listing; status filters when non-empty.
	ListAll(ctx context.Context, status string) ([]*OrderListItem, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, email string) ([]*OrderListItem, error)
	FindAll(ctx context.Context, status string) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	if !actor.IsStaff() && !ownsOrder(actor, view) {
		return nil, ErrViewDenied
	}
	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) ListMine(ctx context.Context, actor Actor) ([]*OrderListItem, error) {
	return q.repo.FindByCustomer(ctx, actor.ID, actor.Email)
}

func (q *orderQueriesImpl) ListAll(ctx context.Context, status string) ([]*OrderListItem, error) {
	return q.repo.FindAll(ctx, status)
}

func ownsOrder(actor Actor, view *OrderView) bool {
	if view.CustomerID != nil && *view.CustomerID == actor.ID {
		return true
	}
	return actor.Email != "" && equalFold(view.CustomerEmail, actor.Email)
}

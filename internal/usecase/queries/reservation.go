package queries

import (
	"context"
	"time"

	"calmtable/internal/infra"
	"calmtable/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrViewNotFound = errs.New("record not found")
	ErrViewDenied   = errs.New("access denied")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem bypasses ownership checks for read-after-write inside
	// commands.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	GetByConfirmationCode(ctx context.Context, code string) (*ReservationView, error)
	ListMine(ctx context.Context, actor Actor) ([]*ReservationView, error)
	ListByDate(ctx context.Context, date time.Time) ([]*ReservationView, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByConfirmationCode(ctx context.Context, code string) (*ReservationView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, email string) ([]*ReservationView, error)
	FindByDate(ctx context.Context, date time.Time) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	if !actor.IsStaff() && !ownsReservation(actor, view) {
		return nil, ErrViewDenied
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByConfirmationCode(ctx context.Context, code string) (*ReservationView, error) {
	view, err := q.repo.FindByConfirmationCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrViewNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListMine(ctx context.Context, actor Actor) ([]*ReservationView, error) {
	return q.repo.FindByUser(ctx, actor.ID, actor.Email)
}

func (q *reservationQueriesImpl) ListByDate(ctx context.Context, date time.Time) ([]*ReservationView, error) {
	return q.repo.FindByDate(ctx, date)
}

func ownsReservation(actor Actor, view *ReservationView) bool {
	if view.UserID != nil && *view.UserID == actor.ID {
		return true
	}
	return actor.Email != "" && equalFold(view.GuestEmail, actor.Email)
}

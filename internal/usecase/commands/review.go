package commands

import (
	"context"

	"calmtable/internal/domain/review"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/clock"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReviewValidation = errs.New("review validation failed")
	ErrMenuItemNotFound = errs.New("menu item not found")
	ErrNotEligible      = errs.New("no past confirmed reservation on record")
	ErrDuplicateReview  = errs.New("item already reviewed by this user")
	ErrReviewNotFound   = errs.New("review not found")
	ErrReviewForbidden  = errs.New("review belongs to another user")
)

type CreateReviewInput struct {
	UserID     uuid.UUID
	UserEmail  string
	MenuItemID uuid.UUID
	Rating     int
	Comment    string
}

type ReviewCommands interface {
	CreateReview(ctx context.Context, input CreateReviewInput) (*queries.ReviewView, error)
	// DeleteReview removes a review; allowed for the author or staff.
	DeleteReview(ctx context.Context, actor queries.Actor, id uuid.UUID) error
}

type reviewCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	views queries.ReviewQueries
}

func NewReviewCommands(uow shared.UnitOfWork, clock clock.Clock, views queries.ReviewQueries) ReviewCommands {
	return &reviewCommandsImpl{uow: uow, clock: clock, views: views}
}

// CreateReview gates on eligibility (a confirmed reservation whose slot is
// already in the past, matched by user ID or email) and on the one-review-per
// -item-per-user unique index.
func (c *reviewCommandsImpl) CreateReview(ctx context.Context, input CreateReviewInput) (*queries.ReviewView, error) {
	if _, err := requireCustomer(ctx, c.uow.CommandReads(), &input.UserID); err != nil {
		return nil, err
	}

	rating, err := review.NewRating(input.Rating)
	if err != nil {
		return nil, errs.Mark(err, ErrReviewValidation)
	}
	comment, err := review.NewComment(input.Comment)
	if err != nil {
		return nil, errs.Mark(err, ErrReviewValidation)
	}

	var reviewID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().MenuItemByID(ctx, input.MenuItemID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrMenuItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		services := &review.Services{
			Clock: c.clock,
			EligibilityChecker: &txEligibility{
				ctx:   ctx,
				tx:    tx.DB(),
				repo:  tx.Reservations(),
				email: input.UserEmail,
			},
		}
		entity, err := review.NewReview(services, input.UserID, input.MenuItemID, rating, comment)
		if err != nil {
			return err
		}

		id, err := tx.Reviews().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateReview)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		reviewID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	views, err := c.views.ListByMenuItem(ctx, input.MenuItemID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, v := range views {
		if v.ID == reviewID {
			return v, nil
		}
	}
	return nil, errs.Mark(errs.New("created review missing from read store"), ErrDatabaseOperationFailed)
}

func (c *reviewCommandsImpl) DeleteReview(ctx context.Context, actor queries.Actor, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		owner, err := tx.Reviews().OwnerOf(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReviewNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if owner != actor.ID && !actor.IsStaff() {
			return ErrReviewForbidden
		}

		if err := tx.Reviews().Delete(ctx, tx.DB(), id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// txEligibility adapts the reservation store to the domain gate within the
// current transaction.
type txEligibility struct {
	ctx   context.Context
	tx    db.DBTX
	repo  shared.ReservationRepository
	email string
}

func (e *txEligibility) CanReview(input review.EligibilityInput) error {
	ok, err := e.repo.HasPastConfirmed(e.ctx, e.tx, input.UserID, e.email, input.Now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !ok {
		return errs.Mark(review.ErrNotEligible, ErrNotEligible)
	}
	return nil
}

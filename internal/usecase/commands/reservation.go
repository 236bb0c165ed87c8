package commands

import (
	"context"
	"log/slog"
	"time"

	"calmtable/internal/domain/reservation"
	"calmtable/internal/infra"
	"calmtable/internal/notify"
	"calmtable/internal/pkg/clock"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
)

// Attempts at issuing a unique confirmation code before giving up. Collisions
// in a 36^8 space are vanishingly rare; retries exist for correctness, not
// because we expect them.
const maxCodeAttempts = 5

var (
	ErrInvalidTimeSlot         = errs.New("invalid time slot")
	ErrCapacityExceeded        = errs.New("time slot is fully booked")
	ErrReservationValidation   = errs.New("reservation validation failed")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrCodeIssueFailed         = errs.New("failed to issue confirmation code")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateReservationInput struct {
	UserID          *uuid.UUID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Date            time.Time
	Slot            string
	PartySize       int
	SpecialRequests string
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*queries.ReservationView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow        shared.UnitOfWork
	catalog    *reservation.Catalog
	clock      clock.Clock
	dispatcher notify.Dispatcher
	views      queries.ReservationQueries
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	catalog *reservation.Catalog,
	clock clock.Clock,
	dispatcher notify.Dispatcher,
	views queries.ReservationQueries,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:        uow,
		catalog:    catalog,
		clock:      clock,
		dispatcher: dispatcher,
		views:      views,
	}
}

// CreateReservation books a slot. Capacity is checked under a per-(date, slot)
// lock inside the transaction, so concurrent requests for the last seat
// serialize and exactly one wins.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, input CreateReservationInput) (*queries.ReservationView, error) {
	if _, err := requireCustomer(ctx, c.uow.CommandReads(), input.UserID); err != nil {
		return nil, err
	}

	slot, err := c.catalog.Lookup(input.Slot)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	entity, err := reservation.NewReservation(
		input.UserID,
		input.GuestName, input.GuestEmail, input.GuestPhone,
		input.Date,
		slot,
		input.PartySize,
		input.SpecialRequests,
		c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationValidation)
	}

	var reservationID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().LockSlot(ctx, tx.DB(), entity.Date(), slot.Label()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		count, err := tx.Reservations().CountActive(ctx, tx.DB(), entity.Date(), slot.Label())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if count >= c.catalog.Capacity() {
			return ErrCapacityExceeded
		}

		id, err := c.createWithUniqueCode(ctx, tx, entity)
		if err != nil {
			return err
		}
		reservationID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.views.GetByIDSystem(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.dispatcher.Dispatch(ctx, notify.ReservationConfirmationEmail(view)); err != nil {
		slog.Warn("reservation confirmation email dispatch failed",
			"reservation_id", reservationID,
			"error", err.Error(),
		)
	}
	return view, nil
}

// createWithUniqueCode issues a fresh code and retries the insert when the
// unique index on confirmation_code reports a collision.
func (c *reservationCommandsImpl) createWithUniqueCode(ctx context.Context, tx shared.Tx, entity *reservation.Reservation) (uuid.UUID, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := reservation.GenerateConfirmationCode()
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrCodeIssueFailed)
		}
		if err := entity.AssignConfirmationCode(code); err != nil {
			return uuid.Nil, errs.Mark(err, ErrCodeIssueFailed)
		}

		id, err := tx.Reservations().Create(ctx, tx.DB(), entity)
		if err == nil {
			return id, nil
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			continue
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return uuid.Nil, ErrCodeIssueFailed
}

// UpdateStatus is staff-only (enforced by middleware) and emails the guest
// about confirmations and cancellations after commit.
func (c *reservationCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*queries.ReservationView, error) {
	parsed, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationValidation)
	}

	var previous string
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().ReservationByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		previous = snap.Status
		if err := tx.Reservations().UpdateStatus(ctx, tx.DB(), id, parsed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.views.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	changed := string(parsed) != previous
	if changed && (parsed == reservation.StatusConfirmed || parsed == reservation.StatusCancelled) {
		if err := c.dispatcher.Dispatch(ctx, notify.ReservationStatusEmail(view)); err != nil {
			slog.Warn("reservation status email dispatch failed",
				"reservation_id", id,
				"error", err.Error(),
			)
		}
	}
	return view, nil
}

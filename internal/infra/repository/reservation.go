package repository

import (
	"context"
	"time"

	"calmtable/internal/domain/reservation"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

// LockSlot takes a transaction-scoped advisory lock keyed on (date, slot).
// Released automatically at commit or rollback.
func (r *ReservationRepository) LockSlot(ctx context.Context, tx db.DBTX, date time.Time, slot string) error {
	key := date.Format("2006-01-02") + "/" + slot
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return infra.WrapRepoErr("failed to lock slot", err)
	}
	return nil
}

func (r *ReservationRepository) CountActive(ctx context.Context, tx db.DBTX, date time.Time, slot string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM reservations
		WHERE date = $1 AND slot = $2 AND status IN ('pending', 'confirmed')`

	var count int
	if err := tx.QueryRow(ctx, query, pgconv.DateToPgtype(date), slot).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return count, nil
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	const query = `
		INSERT INTO reservations (
			id, user_id, guest_name, guest_email, guest_phone,
			date, slot, party_size, special_requests, status, confirmation_code
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		res.ID(),
		pgconv.UUIDPtrToPgtype(res.UserID()),
		res.GuestName(),
		res.GuestEmail(),
		res.GuestPhone(),
		pgconv.DateToPgtype(res.Date()),
		res.Slot().Label(),
		res.PartySize(),
		res.SpecialRequests(),
		string(res.Status()),
		res.ConfirmationCode(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}
	return id, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status reservation.Status) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// HasPastConfirmed matches by owning user or by lowercased guest email. A
// same-day reservation counts only once its slot start is strictly before
// now.
func (r *ReservationRepository) HasPastConfirmed(ctx context.Context, tx db.DBTX, userID uuid.UUID, email string, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM reservations
			WHERE status = 'confirmed'
			  AND (user_id = $1 OR LOWER(guest_email) = LOWER($2))
			  AND (date < $3 OR (date = $3 AND slot < $4))
		)`

	var exists bool
	err := tx.QueryRow(ctx, query,
		userID,
		email,
		pgconv.DateToPgtype(now),
		now.Format("15:04"),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check review eligibility", err)
	}
	return exists, nil
}

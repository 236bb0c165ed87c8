package readstore

import (
	"context"
	"time"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `
	id, user_id, guest_name, guest_email, guest_phone,
	date, slot, party_size, special_requests, status, confirmation_code, created_at`

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	view, err := scanReservationView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return view, nil
}

func (s *ReservationReadStore) FindByConfirmationCode(ctx context.Context, code string) (*queries.ReservationView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE confirmation_code = $1`, code)
	view, err := scanReservationView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by code", err)
	}
	return view, nil
}

func (s *ReservationReadStore) FindByUser(ctx context.Context, userID uuid.UUID, email string) ([]*queries.ReservationView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE user_id = $1 OR ($2 <> '' AND LOWER(guest_email) = LOWER($2))
		 ORDER BY date DESC, slot DESC`,
		userID, email)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return collectReservationViews(rows)
}

func (s *ReservationReadStore) FindByDate(ctx context.Context, date time.Time) ([]*queries.ReservationView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE date = $1
		 ORDER BY slot, created_at`,
		pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by date", err)
	}
	return collectReservationViews(rows)
}

// CountActiveByDate feeds the availability calculator: active reservations
// grouped by slot label for one date.
func (s *ReservationReadStore) CountActiveByDate(ctx context.Context, date time.Time) (map[string]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT slot, COUNT(*)
		 FROM reservations
		 WHERE date = $1 AND status IN ('pending', 'confirmed')
		 GROUP BY slot`,
		pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count reservations by slot", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slot string
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot count", err)
		}
		counts[slot] = count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot counts", err)
	}
	return counts, nil
}

func collectReservationViews(rows pgx.Rows) ([]*queries.ReservationView, error) {
	defer rows.Close()

	views := []*queries.ReservationView{}
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return views, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view      queries.ReservationView
		userID    pgtype.UUID
		date      pgtype.Date
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &userID, &view.GuestName, &view.GuestEmail, &view.GuestPhone,
		&date, &view.Slot, &view.PartySize, &view.SpecialRequests,
		&view.Status, &view.ConfirmationCode, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	view.UserID = pgconv.UUIDPtrFromPgtype(userID)
	view.Date = pgconv.DateFromPgtype(date)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &view, nil
}

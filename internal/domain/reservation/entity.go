package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinPartySize = 1
	MaxPartySize = 20
)

var (
	ErrInvalidPartySize = errors.New("party size must be between 1 and 20")
	ErrPastDate         = errors.New("reservations cannot be made for past dates")
	ErrPastSlot         = errors.New("reservations cannot be made for past time slots")
	ErrInvalidStatus    = errors.New("invalid reservation status")
	ErrMissingName      = errors.New("guest name is required")
	ErrMissingEmail     = errors.New("guest email is required")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsActive reports whether the reservation counts toward slot capacity.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Reservation struct {
	id               uuid.UUID
	userID           *uuid.UUID
	guestName        string
	guestEmail       string
	guestPhone       string
	date             time.Time // date component only, local
	slot             Slot
	partySize        int
	specialRequests  string
	status           Status
	confirmationCode string
	createdAt        time.Time
}

// NewReservation validates a booking request against the temporal rules:
// the date must not be in the past, and a same-day slot must start strictly
// after the current local time. Capacity is checked by the ledger inside the
// same transaction, not here.
func NewReservation(
	userID *uuid.UUID,
	guestName, guestEmail, guestPhone string,
	date time.Time,
	slot Slot,
	partySize int,
	specialRequests string,
	now time.Time,
) (*Reservation, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, ErrMissingName
	}
	guestEmail = strings.TrimSpace(guestEmail)
	if guestEmail == "" {
		return nil, ErrMissingEmail
	}
	if partySize < MinPartySize || partySize > MaxPartySize {
		return nil, ErrInvalidPartySize
	}

	day := truncateToDate(date)
	today := truncateToDate(now)
	if day.Before(today) {
		return nil, ErrPastDate
	}
	if day.Equal(today) && !slot.StartsAfter(now) {
		return nil, ErrPastSlot
	}

	return &Reservation{
		id:              uuid.New(),
		userID:          userID,
		guestName:       guestName,
		guestEmail:      guestEmail,
		guestPhone:      strings.TrimSpace(guestPhone),
		date:            day,
		slot:            slot,
		partySize:       partySize,
		specialRequests: strings.TrimSpace(specialRequests),
		status:          StatusPending,
	}, nil
}

func ReconstructReservation(
	id uuid.UUID,
	userID *uuid.UUID,
	guestName, guestEmail, guestPhone string,
	date time.Time,
	slot Slot,
	partySize int,
	specialRequests string,
	status Status,
	confirmationCode string,
	createdAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		userID:           userID,
		guestName:        guestName,
		guestEmail:       guestEmail,
		guestPhone:       guestPhone,
		date:             truncateToDate(date),
		slot:             slot,
		partySize:        partySize,
		specialRequests:  specialRequests,
		status:           status,
		confirmationCode: confirmationCode,
		createdAt:        createdAt,
	}
}

// AssignConfirmationCode sets the ledger-issued code after validating its
// shape. The ledger may call this again when an insert hits a code collision.
func (r *Reservation) AssignConfirmationCode(code string) error {
	if err := ValidateConfirmationCode(code); err != nil {
		return err
	}
	r.confirmationCode = code
	return nil
}

// IsPast reports whether the reserved slot started strictly before now. Used
// by the review eligibility gate; a slot starting this very minute does not
// count yet.
func (r *Reservation) IsPast(now time.Time) bool {
	day := truncateToDate(now)
	if r.date.Before(day) {
		return true
	}
	return r.date.Equal(day) && r.slot.StartsBefore(now)
}

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) UserID() *uuid.UUID       { return r.userID }
func (r *Reservation) GuestName() string        { return r.guestName }
func (r *Reservation) GuestEmail() string       { return r.guestEmail }
func (r *Reservation) GuestPhone() string       { return r.guestPhone }
func (r *Reservation) Date() time.Time          { return r.date }
func (r *Reservation) Slot() Slot               { return r.slot }
func (r *Reservation) PartySize() int           { return r.partySize }
func (r *Reservation) SpecialRequests() string  { return r.specialRequests }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) ConfirmationCode() string { return r.confirmationCode }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

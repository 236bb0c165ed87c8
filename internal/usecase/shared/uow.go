package shared

import (
	"context"
	"time"

	"calmtable/internal/domain/menu"
	"calmtable/internal/domain/notification"
	"calmtable/internal/domain/order"
	"calmtable/internal/domain/reservation"
	"calmtable/internal/domain/review"
	"calmtable/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Orders() OrderRepository
	Menu() MenuRepository
	Reviews() ReviewRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Jobs() JobRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	MenuItemByID(ctx context.Context, id uuid.UUID) (*MenuItemSnapshot, error)
	// UserByLogin matches email (case-insensitive) or exact username.
	UserByLogin(ctx context.Context, login string) (*UserSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
}

// Minimal snapshots for command read operations
type ReservationSnapshot struct {
	ID               uuid.UUID
	UserID           *uuid.UUID
	GuestName        string
	GuestEmail       string
	Date             time.Time
	Slot             string
	PartySize        int
	Status           string
	ConfirmationCode string
}

type OrderSnapshot struct {
	ID            uuid.UUID
	OrderNumber   string
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	Status        string
	TotalAmount   decimal.Decimal
}

type MenuItemSnapshot struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	IsAvailable bool
}

type UserSnapshot struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
	PasswordHash string
	IsActive     bool
}

type ReservationRepository interface {
	// LockSlot serializes all writers of one (date, slot) pair for the rest of
	// the transaction, making the capacity count race-free.
	LockSlot(ctx context.Context, tx db.DBTX, date time.Time, slot string) error
	CountActive(ctx context.Context, tx db.DBTX, date time.Time, slot string) (int, error)
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status reservation.Status) error
	// HasPastConfirmed reports whether the user has at least one confirmed
	// reservation whose slot start is strictly before now, matched by user ID
	// or lowercased guest email.
	HasPastConfirmed(ctx context.Context, tx db.DBTX, userID uuid.UUID, email string, now time.Time) (bool, error)
}

type OrderRepository interface {
	// LockPending serializes all checkout calls for one customer for the rest
	// of the transaction. Row locks alone cannot protect the first checkout:
	// FOR UPDATE over zero rows locks nothing, so without this two concurrent
	// first checkouts would each open a pending order.
	LockPending(ctx context.Context, tx db.DBTX, customerID uuid.UUID) error
	// FindNewestPendingForUpdate locks and returns the customer's most recent
	// pending order, or a NOT_FOUND kind error when none exists.
	FindNewestPendingForUpdate(ctx context.Context, tx db.DBTX, customerID *uuid.UUID, email string) (*order.Order, error)
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
	AppendLines(ctx context.Context, tx db.DBTX, lines []*order.Line) error
	LinesByOrder(ctx context.Context, tx db.DBTX, orderID uuid.UUID) ([]*order.Line, error)
	UpdateTotal(ctx context.Context, tx db.DBTX, orderID uuid.UUID, total decimal.Decimal) error
	// BackfillContact fills only columns that are currently blank.
	BackfillContact(ctx context.Context, tx db.DBTX, orderID uuid.UUID, name, email string) error
	UpdateStatus(ctx context.Context, tx db.DBTX, orderID uuid.UUID, status order.Status) error
	SetPaymentReference(ctx context.Context, tx db.DBTX, orderID uuid.UUID, ref string) error
}

type MenuRepository interface {
	Create(ctx context.Context, tx db.DBTX, item *menu.Item) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, item *menu.Item) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	SetAvailability(ctx context.Context, tx db.DBTX, id uuid.UUID, available bool) error
	SetFeatured(ctx context.Context, tx db.DBTX, id uuid.UUID, featured bool) error
}

type ReviewRepository interface {
	Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error)
	OwnerOf(ctx context.Context, tx db.DBTX, id uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type NotificationRepository interface {
	CreateBatch(ctx context.Context, tx db.DBTX, notifications []*notification.Notification) error
	MarkRead(ctx context.Context, tx db.DBTX, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx db.DBTX, recipientID uuid.UUID) error
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, params CreateUserParams) (uuid.UUID, error)
	UpdateProfile(ctx context.Context, tx db.DBTX, userID uuid.UUID, firstName, lastName, phone string) error
	ListStaffIDs(ctx context.Context, tx db.DBTX) ([]uuid.UUID, error)
}

type JobRepository interface {
	// Enqueue persists a job for the external worker; run_at allows delayed
	// delivery.
	Enqueue(ctx context.Context, tx db.DBTX, kind string, payload []byte, runAt time.Time) error
}

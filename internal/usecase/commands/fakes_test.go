package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"calmtable/internal/domain/menu"
	"calmtable/internal/domain/notification"
	"calmtable/internal/domain/order"
	"calmtable/internal/domain/reservation"
	"calmtable/internal/domain/review"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/notify"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dupErr() error {
	return infra.WrapRepoErr("duplicate key", errors.New("duplicate"), infra.KindDuplicateKey)
}

func notFoundErr() error {
	return infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound)
}

// fakeStore is shared in-memory state backing every fake repository. It
// mutates directly, so tests exercise failure paths that abort before any
// write rather than simulating rollbacks.
type fakeStore struct {
	capacity   int
	slotCounts map[string]int

	reservations           map[uuid.UUID]*reservation.Reservation
	reservationStatus      map[uuid.UUID]reservation.Status
	reservationCreates     int
	failReservationCreates int

	orders           []*order.Order
	orderCreates     int
	failOrderCreates int
	lockPendingCalls int
	// raceOrder, when set, appears in the store at the moment a create fails,
	// mimicking a concurrent checkout committing the pending order first.
	raceOrder *order.Order

	orderStatus  map[uuid.UUID]order.Status
	orderTotals  map[uuid.UUID]decimal.Decimal
	orderRefs    map[uuid.UUID]string
	lines        map[uuid.UUID][]*order.Line
	orderNumbers map[string]bool

	users     map[uuid.UUID]*shared.UserSnapshot
	staffIDs  []uuid.UUID
	menuItems map[uuid.UUID]*shared.MenuItemSnapshot

	notifications []*notification.Notification

	reviews          map[string]*review.Review
	hasPastConfirmed bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		capacity:          3,
		slotCounts:        map[string]int{},
		reservations:      map[uuid.UUID]*reservation.Reservation{},
		reservationStatus: map[uuid.UUID]reservation.Status{},
		orderStatus:       map[uuid.UUID]order.Status{},
		orderTotals:       map[uuid.UUID]decimal.Decimal{},
		orderRefs:         map[uuid.UUID]string{},
		lines:             map[uuid.UUID][]*order.Line{},
		orderNumbers:      map[string]bool{},
		users:             map[uuid.UUID]*shared.UserSnapshot{},
		menuItems:         map[uuid.UUID]*shared.MenuItemSnapshot{},
		reviews:           map[string]*review.Review{},
	}
}

func slotKey(date time.Time, slot string) string {
	return date.Format("2006-01-02") + "/" + slot
}

func reviewKey(menuItemID, userID uuid.UUID) string {
	return menuItemID.String() + "/" + userID.String()
}

func (s *fakeStore) addUser(snap *shared.UserSnapshot) {
	s.users[snap.ID] = snap
	if snap.Role == "staff" {
		s.staffIDs = append(s.staffIDs, snap.ID)
	}
}

func (s *fakeStore) addMenuItem(name string, price string, available bool) uuid.UUID {
	id := uuid.New()
	s.menuItems[id] = &shared.MenuItemSnapshot{
		ID:          id,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	return id
}

func (s *fakeStore) notificationsByKind(kind notification.Kind) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range s.notifications {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

// fakeUoW satisfies shared.UnitOfWork without a database. There is no
// rollback: failure paths under test abort before touching the store.
type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Reservations() shared.ReservationRepository   { return &fakeReservationRepo{t.store} }
func (t *fakeTx) Orders() shared.OrderRepository               { return &fakeOrderRepo{t.store} }
func (t *fakeTx) Menu() shared.MenuRepository                  { return &fakeMenuRepo{} }
func (t *fakeTx) Reviews() shared.ReviewRepository             { return &fakeReviewRepo{t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{t.store} }
func (t *fakeTx) Users() shared.UserRepository                 { return &fakeUserRepo{t.store} }
func (t *fakeTx) Jobs() shared.JobRepository                   { return &fakeJobRepo{} }
func (t *fakeTx) Reads() shared.CommandReads                   { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, notFoundErr()
	}
	return &shared.ReservationSnapshot{
		ID:               res.ID(),
		UserID:           res.UserID(),
		GuestName:        res.GuestName(),
		GuestEmail:       res.GuestEmail(),
		Date:             res.Date(),
		Slot:             res.Slot().Label(),
		PartySize:        res.PartySize(),
		Status:           string(r.store.reservationStatus[id]),
		ConfirmationCode: res.ConfirmationCode(),
	}, nil
}

func (r *fakeReads) OrderByID(_ context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	for _, o := range r.store.orders {
		if o.ID() == id {
			return &shared.OrderSnapshot{
				ID:            o.ID(),
				OrderNumber:   o.OrderNumber(),
				CustomerID:    o.CustomerID(),
				CustomerName:  o.CustomerName(),
				CustomerEmail: o.CustomerEmail(),
				Status:        string(r.store.orderStatus[id]),
				TotalAmount:   r.store.orderTotals[id],
			}, nil
		}
	}
	return nil, notFoundErr()
}

func (r *fakeReads) MenuItemByID(_ context.Context, id uuid.UUID) (*shared.MenuItemSnapshot, error) {
	snap, ok := r.store.menuItems[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) UserByLogin(_ context.Context, login string) (*shared.UserSnapshot, error) {
	for _, snap := range r.store.users {
		if strings.EqualFold(snap.Email, login) || snap.Username == login {
			return snap, nil
		}
	}
	return nil, notFoundErr()
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	snap, ok := r.store.users[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

type fakeReservationRepo struct {
	store *fakeStore
}

func (r *fakeReservationRepo) LockSlot(_ context.Context, _ db.DBTX, _ time.Time, _ string) error {
	return nil
}

func (r *fakeReservationRepo) CountActive(_ context.Context, _ db.DBTX, date time.Time, slot string) (int, error) {
	return r.store.slotCounts[slotKey(date, slot)], nil
}

func (r *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	r.store.reservationCreates++
	if r.store.failReservationCreates > 0 {
		r.store.failReservationCreates--
		return uuid.Nil, dupErr()
	}
	r.store.reservations[res.ID()] = res
	r.store.reservationStatus[res.ID()] = res.Status()
	r.store.slotCounts[slotKey(res.Date(), res.Slot().Label())]++
	return res.ID(), nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status reservation.Status) error {
	if _, ok := r.store.reservations[id]; !ok {
		return notFoundErr()
	}
	r.store.reservationStatus[id] = status
	return nil
}

func (r *fakeReservationRepo) HasPastConfirmed(_ context.Context, _ db.DBTX, _ uuid.UUID, _ string, _ time.Time) (bool, error) {
	return r.store.hasPastConfirmed, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) LockPending(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	r.store.lockPendingCalls++
	return nil
}

func (r *fakeOrderRepo) FindNewestPendingForUpdate(_ context.Context, _ db.DBTX, customerID *uuid.UUID, email string) (*order.Order, error) {
	for i := len(r.store.orders) - 1; i >= 0; i-- {
		o := r.store.orders[i]
		if r.store.orderStatus[o.ID()] != order.StatusPending {
			continue
		}
		if customerID != nil {
			if o.CustomerID() != nil && *o.CustomerID() == *customerID {
				return o, nil
			}
			continue
		}
		if o.CustomerID() == nil && o.CustomerEmail() == email {
			return o, nil
		}
	}
	return nil, notFoundErr()
}

func (r *fakeOrderRepo) Create(_ context.Context, _ db.DBTX, o *order.Order) (uuid.UUID, error) {
	r.store.orderCreates++
	if r.store.failOrderCreates > 0 {
		r.store.failOrderCreates--
		if r.store.raceOrder != nil {
			won := r.store.raceOrder
			r.store.raceOrder = nil
			r.store.orders = append(r.store.orders, won)
			r.store.orderStatus[won.ID()] = won.Status()
			r.store.orderTotals[won.ID()] = won.TotalAmount()
		}
		return uuid.Nil, dupErr()
	}
	if r.store.orderNumbers[o.OrderNumber()] {
		return uuid.Nil, dupErr()
	}
	r.store.orderNumbers[o.OrderNumber()] = true
	r.store.orders = append(r.store.orders, o)
	r.store.orderStatus[o.ID()] = o.Status()
	r.store.orderTotals[o.ID()] = o.TotalAmount()
	return o.ID(), nil
}

func (r *fakeOrderRepo) AppendLines(_ context.Context, _ db.DBTX, lines []*order.Line) error {
	for _, line := range lines {
		r.store.lines[line.OrderID()] = append(r.store.lines[line.OrderID()], line)
	}
	return nil
}

func (r *fakeOrderRepo) LinesByOrder(_ context.Context, _ db.DBTX, orderID uuid.UUID) ([]*order.Line, error) {
	return r.store.lines[orderID], nil
}

func (r *fakeOrderRepo) UpdateTotal(_ context.Context, _ db.DBTX, orderID uuid.UUID, total decimal.Decimal) error {
	r.store.orderTotals[orderID] = total
	return nil
}

func (r *fakeOrderRepo) BackfillContact(_ context.Context, _ db.DBTX, _ uuid.UUID, _, _ string) error {
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ db.DBTX, orderID uuid.UUID, status order.Status) error {
	r.store.orderStatus[orderID] = status
	return nil
}

func (r *fakeOrderRepo) SetPaymentReference(_ context.Context, _ db.DBTX, orderID uuid.UUID, ref string) error {
	r.store.orderRefs[orderID] = ref
	return nil
}

type fakeMenuRepo struct{}

func (r *fakeMenuRepo) Create(_ context.Context, _ db.DBTX, _ *menu.Item) (uuid.UUID, error) {
	return uuid.New(), nil
}
func (r *fakeMenuRepo) Update(_ context.Context, _ db.DBTX, _ *menu.Item) error        { return nil }
func (r *fakeMenuRepo) Delete(_ context.Context, _ db.DBTX, _ uuid.UUID) error         { return nil }
func (r *fakeMenuRepo) SetAvailability(_ context.Context, _ db.DBTX, _ uuid.UUID, _ bool) error {
	return nil
}
func (r *fakeMenuRepo) SetFeatured(_ context.Context, _ db.DBTX, _ uuid.UUID, _ bool) error {
	return nil
}

type fakeReviewRepo struct {
	store *fakeStore
}

func (r *fakeReviewRepo) Create(_ context.Context, _ db.DBTX, rev *review.Review) (uuid.UUID, error) {
	key := reviewKey(rev.MenuItemID(), rev.UserID())
	if _, exists := r.store.reviews[key]; exists {
		return uuid.Nil, dupErr()
	}
	r.store.reviews[key] = rev
	return rev.ID(), nil
}

func (r *fakeReviewRepo) OwnerOf(_ context.Context, _ db.DBTX, id uuid.UUID) (uuid.UUID, error) {
	for _, rev := range r.store.reviews {
		if rev.ID() == id {
			return rev.UserID(), nil
		}
	}
	return uuid.Nil, notFoundErr()
}

func (r *fakeReviewRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	for key, rev := range r.store.reviews {
		if rev.ID() == id {
			delete(r.store.reviews, key)
			return nil
		}
	}
	return notFoundErr()
}

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) CreateBatch(_ context.Context, _ db.DBTX, notifications []*notification.Notification) error {
	r.store.notifications = append(r.store.notifications, notifications...)
	return nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ db.DBTX, _, _ uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, params shared.CreateUserParams) (uuid.UUID, error) {
	for _, snap := range r.store.users {
		if snap.Email == params.Email || snap.Username == params.Username {
			return uuid.Nil, dupErr()
		}
	}
	id := uuid.New()
	r.store.users[id] = &shared.UserSnapshot{
		ID:           id,
		Username:     params.Username,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		Role:         params.Role,
		PasswordHash: params.PasswordHash,
		IsActive:     true,
	}
	return id, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, _ db.DBTX, userID uuid.UUID, firstName, lastName, phone string) error {
	snap, ok := r.store.users[userID]
	if !ok {
		return notFoundErr()
	}
	snap.FirstName = firstName
	snap.LastName = lastName
	snap.Phone = phone
	return nil
}

func (r *fakeUserRepo) ListStaffIDs(_ context.Context, _ db.DBTX) ([]uuid.UUID, error) {
	ids := append([]uuid.UUID(nil), r.store.staffIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

type fakeJobRepo struct{}

func (r *fakeJobRepo) Enqueue(_ context.Context, _ db.DBTX, _ string, _ []byte, _ time.Time) error {
	return nil
}

// fakeDispatcher records dispatched emails.
type fakeDispatcher struct {
	sent []notify.Email
}

func (d *fakeDispatcher) Dispatch(_ context.Context, email notify.Email) error {
	d.sent = append(d.sent, email)
	return nil
}

// fakeGateway records payment intents.
type fakeGateway struct {
	calls int
	ref   string
	err   error
}

func (g *fakeGateway) CreateIntent(_ context.Context, _ decimal.Decimal, _ string) (string, error) {
	g.calls++
	return g.ref, g.err
}

// fakeReservationViews serves read-after-write lookups from the store.
type fakeReservationViews struct {
	store *fakeStore
}

func (v *fakeReservationViews) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	res, ok := v.store.reservations[id]
	if !ok {
		return nil, queries.ErrViewNotFound
	}
	return &queries.ReservationView{
		ID:               res.ID(),
		UserID:           res.UserID(),
		GuestName:        res.GuestName(),
		GuestEmail:       res.GuestEmail(),
		Date:             res.Date(),
		Slot:             res.Slot().Label(),
		PartySize:        res.PartySize(),
		Status:           string(v.store.reservationStatus[id]),
		ConfirmationCode: res.ConfirmationCode(),
	}, nil
}

func (v *fakeReservationViews) GetByID(ctx context.Context, _ queries.Actor, id uuid.UUID) (*queries.ReservationView, error) {
	return v.GetByIDSystem(ctx, id)
}

func (v *fakeReservationViews) GetByConfirmationCode(_ context.Context, code string) (*queries.ReservationView, error) {
	for id, res := range v.store.reservations {
		if res.ConfirmationCode() == code {
			return v.GetByIDSystem(context.Background(), id)
		}
	}
	return nil, queries.ErrViewNotFound
}

func (v *fakeReservationViews) ListMine(_ context.Context, _ queries.Actor) ([]*queries.ReservationView, error) {
	return nil, nil
}

func (v *fakeReservationViews) ListByDate(_ context.Context, _ time.Time) ([]*queries.ReservationView, error) {
	return nil, nil
}

// fakeOrderViews serves read-after-write lookups from the store.
type fakeOrderViews struct {
	store *fakeStore
}

func (v *fakeOrderViews) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	for _, o := range v.store.orders {
		if o.ID() != id {
			continue
		}
		view := &queries.OrderView{
			ID:               o.ID(),
			OrderNumber:      o.OrderNumber(),
			CustomerID:       o.CustomerID(),
			CustomerName:     o.CustomerName(),
			CustomerEmail:    o.CustomerEmail(),
			Status:           string(v.store.orderStatus[id]),
			TotalAmount:      v.store.orderTotals[id],
			Notes:            o.Notes(),
			PaymentReference: v.store.orderRefs[id],
		}
		for _, line := range v.store.lines[id] {
			view.Lines = append(view.Lines, queries.OrderLineView{
				ID:         line.ID(),
				MenuItemID: line.MenuItemID(),
				ItemName:   line.ItemName(),
				UnitPrice:  line.UnitPrice(),
				Quantity:   line.Quantity(),
				LineTotal:  line.LineTotal(),
			})
		}
		return view, nil
	}
	return nil, queries.ErrViewNotFound
}

func (v *fakeOrderViews) GetByID(ctx context.Context, _ queries.Actor, id uuid.UUID) (*queries.OrderView, error) {
	return v.GetByIDSystem(ctx, id)
}

func (v *fakeOrderViews) ListMine(_ context.Context, _ queries.Actor) ([]*queries.OrderListItem, error) {
	return nil, nil
}

func (v *fakeOrderViews) ListAll(_ context.Context, _ string) ([]*queries.OrderListItem, error) {
	return nil, nil
}

// fakeReviewViews serves the created-review lookup from the store.
type fakeReviewViews struct {
	store *fakeStore
}

func (v *fakeReviewViews) ListByMenuItem(_ context.Context, menuItemID uuid.UUID) ([]*queries.ReviewView, error) {
	var views []*queries.ReviewView
	for _, rev := range v.store.reviews {
		if rev.MenuItemID() != menuItemID {
			continue
		}
		views = append(views, &queries.ReviewView{
			ID:         rev.ID(),
			MenuItemID: rev.MenuItemID(),
			UserID:     rev.UserID(),
			UserName:   fmt.Sprintf("user-%s", rev.UserID()),
			Rating:     rev.Rating().Int(),
			Comment:    rev.Comment().String(),
		})
	}
	return views, nil
}

func (v *fakeReviewViews) ListMine(_ context.Context, _ queries.Actor) ([]*queries.ReviewView, error) {
	return nil, nil
}

package commands_test

import (
	"context"
	"testing"

	"calmtable/internal/domain/notification"
	"calmtable/internal/domain/order"
	"calmtable/internal/usecase/commands"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store      *fakeStore
	dispatcher *fakeDispatcher
	gateway    *fakeGateway
	commands   commands.OrderCommands

	customerID uuid.UUID
	staffID    uuid.UUID
	pastaID    uuid.UUID
	salmonID   uuid.UUID
	soldOutID  uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	store := newFakeStore()

	customerID := uuid.New()
	store.addUser(&shared.UserSnapshot{
		ID:        customerID,
		Username:  "ada",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      "customer",
		IsActive:  true,
	})
	staffID := uuid.New()
	store.addUser(&shared.UserSnapshot{
		ID: staffID, Username: "chef", Email: "chef@calmtable.test", Role: "staff", IsActive: true,
	})
	store.addUser(&shared.UserSnapshot{
		ID: uuid.New(), Username: "host", Email: "host@calmtable.test", Role: "staff", IsActive: true,
	})

	dispatcher := &fakeDispatcher{}
	gateway := &fakeGateway{ref: "pi_test_123"}
	uow := &fakeUoW{store: store}

	return &orderFixture{
		store:      store,
		dispatcher: dispatcher,
		gateway:    gateway,
		commands: commands.NewOrderCommands(
			uow, order.NewNumberGenerator("ORD"), dispatcher, gateway, &fakeOrderViews{store: store},
		),
		customerID: customerID,
		staffID:    staffID,
		pastaID:    store.addMenuItem("Truffle Pasta", "18.50", true),
		salmonID:   store.addMenuItem("Grilled Salmon", "24.00", true),
		soldOutID:  store.addMenuItem("Seasonal Special", "30.00", false),
	}
}

func (f *orderFixture) cartFor(menuItemID uuid.UUID, quantity int) []commands.CartItem {
	return []commands.CartItem{{MenuItemID: &menuItemID, Quantity: quantity}}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("opens a pending order with catalog prices", func(t *testing.T) {
		f := newOrderFixture(t)

		view, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 2),
		})
		require.NoError(t, err)

		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, "Ada Lovelace", view.CustomerName)
		assert.Equal(t, "ada@example.com", view.CustomerEmail)
		assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("37.00")))
		require.Len(t, view.Lines, 1)
		assert.Equal(t, "Truffle Pasta", view.Lines[0].ItemName)
		assert.Equal(t, 2, view.Lines[0].Quantity)
	})

	t.Run("two checkouts converge on one order", func(t *testing.T) {
		f := newOrderFixture(t)

		first, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		second, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.salmonID, 2),
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.OrderNumber, second.OrderNumber)
		assert.Len(t, f.store.orders, 1)

		require.Len(t, second.Lines, 2)
		assert.True(t, second.TotalAmount.Equal(decimal.RequireFromString("66.50")))
	})

	t.Run("a completed order does not absorb new lines", func(t *testing.T) {
		f := newOrderFixture(t)

		first, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		_, err = f.commands.UpdateStatus(context.Background(), first.ID, "completed")
		require.NoError(t, err)

		second, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.salmonID, 1),
		})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Len(t, f.store.orders, 2)
	})

	t.Run("notifies every staff member and the customer once per checkout", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		newOrder := f.store.notificationsByKind(notification.KindNewOrder)
		statusUpdates := f.store.notificationsByKind(notification.KindStatusUpdate)
		require.Len(t, newOrder, 2)
		assert.Equal(t, "New order", newOrder[0].Title())
		assert.Equal(t, 1, newOrder[0].Payload()["item_count"])
		require.Len(t, statusUpdates, 1)
		assert.Equal(t, f.customerID, statusUpdates[0].RecipientID())

		_, err = f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.salmonID, 1),
		})
		require.NoError(t, err)

		assert.Len(t, f.store.notificationsByKind(notification.KindNewOrder), 4)
		assert.Len(t, f.store.notificationsByKind(notification.KindStatusUpdate), 2)
	})

	t.Run("an unknown item fails the whole checkout", func(t *testing.T) {
		f := newOrderFixture(t)
		unknown := uuid.New()

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items: []commands.CartItem{
				{MenuItemID: &f.pastaID, Quantity: 1},
				{MenuItemID: &unknown, Quantity: 1},
			},
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCartItem)
		assert.Empty(t, f.store.orders)
		assert.Empty(t, f.store.notifications)
		assert.Empty(t, f.dispatcher.sent)
	})

	t.Run("an unavailable item fails the whole checkout", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.soldOutID, 1),
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCartItem)
		assert.Empty(t, f.store.orders)
	})

	t.Run("an empty cart is rejected", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
		})
		assert.ErrorIs(t, err, commands.ErrOrderValidation)
	})

	t.Run("an anonymous caller cannot check out", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerName:  "Walk In",
			CustomerEmail: "walkin@example.com",
			Items:         f.cartFor(f.pastaID, 1),
		})
		assert.ErrorIs(t, err, commands.ErrAuthenticationRequired)
		assert.Empty(t, f.store.orders)
		assert.Empty(t, f.store.notifications)
	})

	t.Run("a staff account cannot check out", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.staffID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		assert.ErrorIs(t, err, commands.ErrForbiddenRole)
		assert.Empty(t, f.store.orders)
	})

	t.Run("a customer without an email on file is rejected", func(t *testing.T) {
		f := newOrderFixture(t)

		bareID := uuid.New()
		f.store.addUser(&shared.UserSnapshot{
			ID: bareID, Username: "bare", Role: "customer", IsActive: true,
		})

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &bareID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		assert.ErrorIs(t, err, commands.ErrMissingContactInfo)
		assert.Empty(t, f.store.orders)
	})

	t.Run("ad-hoc items keep their given name and price", func(t *testing.T) {
		f := newOrderFixture(t)

		view, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items: []commands.CartItem{{
				ItemName:  "Corkage",
				UnitPrice: decimalPtr("10.00"),
				Quantity:  1,
			}},
		})
		require.NoError(t, err)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, "Corkage", view.Lines[0].ItemName)
		assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("serializes checkout calls per customer", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, f.store.lockPendingCalls)
	})

	t.Run("a lost insert race converges on the winner's order", func(t *testing.T) {
		f := newOrderFixture(t)

		winner, err := order.NewOrder("ORD-DEADBEEF", &f.customerID, "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, err)
		f.store.failOrderCreates = 1
		f.store.raceOrder = winner

		view, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, winner.ID(), view.ID)
		assert.Len(t, f.store.orders, 1)
	})

	t.Run("attaches a payment intent after commit", func(t *testing.T) {
		f := newOrderFixture(t)

		view, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.gateway.calls)
		assert.Equal(t, "pi_test_123", view.PaymentReference)
		assert.Equal(t, "pi_test_123", f.store.orderRefs[view.ID])
	})

	t.Run("a gateway outage does not fail the order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.gateway.err = assert.AnError

		view, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)
		assert.Empty(t, view.PaymentReference)
	})

	t.Run("retries on an order number collision", func(t *testing.T) {
		f := newOrderFixture(t)
		f.store.failOrderCreates = 2

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, 3, f.store.orderCreates)
		assert.Len(t, f.store.orders, 1)
	})

	t.Run("gives up after exhausting number attempts", func(t *testing.T) {
		f := newOrderFixture(t)
		f.store.failOrderCreates = 5

		_, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		assert.ErrorIs(t, err, commands.ErrOrderNumberIssueFailed)
		assert.Empty(t, f.store.orders)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("notifies and emails the customer", func(t *testing.T) {
		f := newOrderFixture(t)

		placed, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)
		f.dispatcher.sent = nil
		f.store.notifications = nil

		view, err := f.commands.UpdateStatus(context.Background(), placed.ID, "preparing")
		require.NoError(t, err)

		assert.Equal(t, "preparing", view.Status)

		updates := f.store.notificationsByKind(notification.KindStatusUpdate)
		require.Len(t, updates, 1)
		assert.Contains(t, updates[0].Message(), "preparing")

		require.Len(t, f.dispatcher.sent, 1)
		assert.Contains(t, f.dispatcher.sent[0].Subject, "preparing")
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.commands.UpdateStatus(context.Background(), uuid.New(), "preparing")
		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		f := newOrderFixture(t)

		placed, err := f.commands.PlaceOrder(context.Background(), commands.PlaceOrderInput{
			CustomerID: &f.customerID,
			Items:      f.cartFor(f.pastaID, 1),
		})
		require.NoError(t, err)

		_, err = f.commands.UpdateStatus(context.Background(), placed.ID, "vanished")
		assert.ErrorIs(t, err, commands.ErrOrderValidation)
	})
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

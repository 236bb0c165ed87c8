package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"calmtable/internal/domain/notification"
	"calmtable/internal/domain/order"
	"calmtable/internal/infra"
	"calmtable/internal/notify"
	"calmtable/internal/payment"
	"calmtable/internal/pkg/errs"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxOrderNumberAttempts = 5

var (
	ErrOrderValidation        = errs.New("order validation failed")
	ErrOrderNotFound          = errs.New("order not found")
	ErrInvalidCartItem        = errs.New("cart references an unknown or unavailable item")
	ErrMissingContactInfo     = errs.New("order requires a contact email")
	ErrOrderNumberIssueFailed = errs.New("failed to issue order number")
)

// CartItem is one requested line. Catalog items carry a menu item ID and take
// name and price from the catalog snapshot; ad-hoc items must bring both.
type CartItem struct {
	MenuItemID *uuid.UUID
	ItemName   string
	UnitPrice  *decimal.Decimal
	Quantity   int
}

type PlaceOrderInput struct {
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	Notes         string
	Items         []CartItem
}

type OrderCommands interface {
	// PlaceOrder consolidates: a customer's open pending order absorbs the new
	// lines, otherwise a fresh order is opened. Either way the lines, the
	// recomputed total and the notification fan-out commit atomically.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*queries.OrderView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*queries.OrderView, error)
}

type orderCommandsImpl struct {
	uow        shared.UnitOfWork
	numbers    *order.NumberGenerator
	dispatcher notify.Dispatcher
	gateway    payment.Gateway
	views      queries.OrderQueries
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	numbers *order.NumberGenerator,
	dispatcher notify.Dispatcher,
	gateway payment.Gateway,
	views queries.OrderQueries,
) OrderCommands {
	return &orderCommandsImpl{
		uow:        uow,
		numbers:    numbers,
		dispatcher: dispatcher,
		gateway:    gateway,
		views:      views,
	}
}

func (c *orderCommandsImpl) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*queries.OrderView, error) {
	if _, err := requireCustomer(ctx, c.uow.CommandReads(), input.CustomerID); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, errs.Mark(order.ErrEmptyCart, ErrOrderValidation)
	}

	var orderID uuid.UUID
	var created bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		name, email, err := c.resolveContact(ctx, tx, input)
		if err != nil {
			return err
		}

		resolved, err := c.resolveCart(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		target, wasCreated, err := c.findOrOpenOrder(ctx, tx, input, name, email)
		if err != nil {
			return err
		}
		orderID = target.ID()
		created = wasCreated

		if !wasCreated && (target.CustomerName() == "" || target.CustomerEmail() == "") {
			if err := tx.Orders().BackfillContact(ctx, tx.DB(), orderID, name, email); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		lines := make([]*order.Line, 0, len(resolved))
		for _, item := range resolved {
			line, err := order.NewLine(orderID, item.menuItemID, item.name, item.price, item.quantity)
			if err != nil {
				return errs.Mark(err, ErrOrderValidation)
			}
			lines = append(lines, line)
		}
		if err := tx.Orders().AppendLines(ctx, tx.DB(), lines); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		allLines, err := tx.Orders().LinesByOrder(ctx, tx.DB(), orderID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().UpdateTotal(ctx, tx.DB(), orderID, order.SumLineTotals(allLines)); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return c.fanOut(ctx, tx, orderID, input.CustomerID, target.OrderNumber(), len(lines), created)
	})
	if err != nil {
		return nil, err
	}

	view, err := c.views.GetByIDSystem(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.attachPaymentIntent(ctx, view)

	if view.CustomerEmail != "" {
		if err := c.dispatcher.Dispatch(ctx, notify.OrderConfirmationEmail(view)); err != nil {
			slog.Warn("order confirmation email dispatch failed",
				"order_id", orderID,
				"error", err.Error(),
			)
		}
	}
	return view, nil
}

type resolvedItem struct {
	menuItemID *uuid.UUID
	name       string
	price      decimal.Decimal
	quantity   int
}

// resolveContact determines the order's customer snapshot: payload fields win,
// the authenticated user's profile fills the gaps. An order with no reachable
// email is rejected before any write happens.
func (c *orderCommandsImpl) resolveContact(ctx context.Context, tx shared.Tx, input PlaceOrderInput) (string, string, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.TrimSpace(input.CustomerEmail)

	if input.CustomerID != nil && (name == "" || email == "") {
		snap, err := tx.Reads().UserByID(ctx, *input.CustomerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return "", "", errs.Mark(err, ErrOrderValidation)
			}
			return "", "", errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if name == "" {
			name = displayName(snap)
		}
		if email == "" {
			email = snap.Email
		}
	}

	if email == "" {
		return "", "", ErrMissingContactInfo
	}
	return name, email, nil
}

func displayName(snap *shared.UserSnapshot) string {
	full := strings.TrimSpace(strings.TrimSpace(snap.FirstName) + " " + strings.TrimSpace(snap.LastName))
	if full != "" {
		return full
	}
	return snap.Username
}

// resolveCart snapshots catalog names and prices inside the transaction. Any
// unknown or unavailable item fails the whole checkout, leaving nothing
// written.
func (c *orderCommandsImpl) resolveCart(ctx context.Context, tx shared.Tx, items []CartItem) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		if item.MenuItemID == nil {
			if strings.TrimSpace(item.ItemName) == "" || item.UnitPrice == nil {
				return nil, ErrInvalidCartItem
			}
			resolved = append(resolved, resolvedItem{
				name:     item.ItemName,
				price:    *item.UnitPrice,
				quantity: item.Quantity,
			})
			continue
		}

		snap, err := tx.Reads().MenuItemByID(ctx, *item.MenuItemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, ErrInvalidCartItem)
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !snap.IsAvailable {
			return nil, ErrInvalidCartItem
		}
		resolved = append(resolved, resolvedItem{
			menuItemID: item.MenuItemID,
			name:       snap.Name,
			price:      snap.Price,
			quantity:   item.Quantity,
		})
	}
	return resolved, nil
}

// findOrOpenOrder locks the customer's checkout path for the rest of the
// transaction, then returns the newest pending order or opens a fresh one.
// The advisory lock makes two rapid checkout calls converge on one order
// instead of racing into two; a duplicate-key insert means another
// transaction won the race, so the existing order is re-read and used.
func (c *orderCommandsImpl) findOrOpenOrder(ctx context.Context, tx shared.Tx, input PlaceOrderInput, name, email string) (*order.Order, bool, error) {
	if input.CustomerID != nil {
		if err := tx.Orders().LockPending(ctx, tx.DB(), *input.CustomerID); err != nil {
			return nil, false, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	existing, err := tx.Orders().FindNewestPendingForUpdate(ctx, tx.DB(), input.CustomerID, email)
	if err == nil {
		return existing, false, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, false, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := c.numbers.Generate()
		if err != nil {
			return nil, false, errs.Mark(err, ErrOrderNumberIssueFailed)
		}
		entity, err := order.NewOrder(number, input.CustomerID, name, email, input.Notes)
		if err != nil {
			return nil, false, errs.Mark(err, ErrOrderValidation)
		}
		if _, err := tx.Orders().Create(ctx, tx.DB(), entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				// Either the order number collided or a concurrent checkout
				// opened the pending order first; prefer the existing order.
				if existing, ferr := tx.Orders().FindNewestPendingForUpdate(ctx, tx.DB(), input.CustomerID, email); ferr == nil {
					return existing, false, nil
				}
				continue
			}
			return nil, false, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return entity, true, nil
	}
	return nil, false, ErrOrderNumberIssueFailed
}

// fanOut creates the in-app notifications for this checkout call: one
// new_order per staff member, one status_update for the customer. They commit
// with the order, so a rolled-back checkout notifies nobody.
func (c *orderCommandsImpl) fanOut(ctx context.Context, tx shared.Tx, orderID uuid.UUID, customerID *uuid.UUID, orderNumber string, lineCount int, created bool) error {
	staffIDs, err := tx.Users().ListStaffIDs(ctx, tx.DB())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	verb := "updated with"
	if created {
		verb = "placed with"
	}
	staffMsg := fmt.Sprintf("Order %s %s %d item(s)", orderNumber, verb, lineCount)
	payload := map[string]any{"order_number": orderNumber, "item_count": lineCount}

	notifications := make([]*notification.Notification, 0, len(staffIDs)+1)
	for _, staffID := range staffIDs {
		n, err := notification.NewNotification(staffID, notification.KindNewOrder, "New order", staffMsg, &orderID)
		if err != nil {
			return errs.Mark(err, ErrOrderValidation)
		}
		n.AttachPayload(payload)
		notifications = append(notifications, n)
	}
	if customerID != nil {
		n, err := notification.NewNotification(*customerID, notification.KindStatusUpdate, "Order received",
			fmt.Sprintf("Your order %s has been received", orderNumber), &orderID)
		if err != nil {
			return errs.Mark(err, ErrOrderValidation)
		}
		n.AttachPayload(payload)
		notifications = append(notifications, n)
	}

	if len(notifications) == 0 {
		return nil
	}
	if err := tx.Notifications().CreateBatch(ctx, tx.DB(), notifications); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// attachPaymentIntent is best-effort: a gateway outage must not undo a
// committed order, so failures only log.
func (c *orderCommandsImpl) attachPaymentIntent(ctx context.Context, view *queries.OrderView) {
	if view.TotalAmount.IsZero() {
		return
	}
	ref, err := c.gateway.CreateIntent(ctx, view.TotalAmount, view.OrderNumber)
	if err != nil {
		slog.Warn("payment intent creation failed",
			"order_id", view.ID,
			"error", err.Error(),
		)
		return
	}
	if ref == "" {
		return
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().SetPaymentReference(ctx, tx.DB(), view.ID, ref)
	})
	if err != nil {
		slog.Warn("failed to store payment reference",
			"order_id", view.ID,
			"error", err.Error(),
		)
		return
	}
	view.PaymentReference = ref
}

func (c *orderCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*queries.OrderView, error) {
	parsed, err := order.ParseStatus(status)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), id, parsed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if snap.CustomerID == nil {
			return nil
		}
		n, err := notification.NewNotification(*snap.CustomerID, notification.KindStatusUpdate, "Order update",
			fmt.Sprintf("Your order %s is now %s", snap.OrderNumber, parsed), &id)
		if err != nil {
			return errs.Mark(err, ErrOrderValidation)
		}
		n.AttachPayload(map[string]any{"order_number": snap.OrderNumber, "status": string(parsed)})
		if err := tx.Notifications().CreateBatch(ctx, tx.DB(), []*notification.Notification{n}); err != nil {
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

	if view.CustomerEmail != "" {
		if err := c.dispatcher.Dispatch(ctx, notify.OrderStatusEmail(view)); err != nil {
			slog.Warn("order status email dispatch failed",
				"order_id", id,
				"error", err.Error(),
			)
		}
	}
	return view, nil
}

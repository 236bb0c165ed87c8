package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinQuantity = 1
	MaxQuantity = 50
)

var (
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 50")
	ErrMissingItemName = errors.New("item name is required for ad-hoc lines")
	ErrMissingPrice    = errors.New("unit price is required for ad-hoc lines")
	ErrNegativePrice   = errors.New("unit price cannot be negative")
	ErrEmptyCart       = errors.New("cart must contain at least one item")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsOpen reports whether the order still accepts consolidated checkout
// lines. Only pending orders are open.
func (s Status) IsOpen() bool {
	return s == StatusPending
}

// Line is an immutable order line. Name and unit price are snapshotted at
// checkout; repeated checkouts append new lines rather than incrementing
// existing ones, keeping call-level granularity for audit.
type Line struct {
	id         uuid.UUID
	orderID    uuid.UUID
	menuItemID *uuid.UUID
	itemName   string
	unitPrice  decimal.Decimal
	quantity   int
	createdAt  time.Time
}

func NewLine(orderID uuid.UUID, menuItemID *uuid.UUID, itemName string, unitPrice decimal.Decimal, quantity int) (*Line, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, ErrMissingItemName
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	return &Line{
		id:         uuid.New(),
		orderID:    orderID,
		menuItemID: menuItemID,
		itemName:   itemName,
		unitPrice:  unitPrice.Round(2),
		quantity:   quantity,
	}, nil
}

func ReconstructLine(id, orderID uuid.UUID, menuItemID *uuid.UUID, itemName string, unitPrice decimal.Decimal, quantity int, createdAt time.Time) *Line {
	return &Line{
		id:         id,
		orderID:    orderID,
		menuItemID: menuItemID,
		itemName:   itemName,
		unitPrice:  unitPrice,
		quantity:   quantity,
		createdAt:  createdAt,
	}
}

func (l *Line) ID() uuid.UUID               { return l.id }
func (l *Line) OrderID() uuid.UUID          { return l.orderID }
func (l *Line) MenuItemID() *uuid.UUID      { return l.menuItemID }
func (l *Line) ItemName() string            { return l.itemName }
func (l *Line) UnitPrice() decimal.Decimal  { return l.unitPrice }
func (l *Line) Quantity() int               { return l.quantity }
func (l *Line) CreatedAt() time.Time        { return l.createdAt }

// LineTotal is quantity x unit price, two decimal places.
func (l *Line) LineTotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity))).Round(2)
}

// SumLineTotals computes an order total from all of its lines. The
// consolidator persists this derived value for read efficiency but always
// recomputes it from the full line set, never from a delta.
func SumLineTotals(lines []*Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total.Round(2)
}

type Order struct {
	id            uuid.UUID
	orderNumber   string
	customerID    *uuid.UUID
	customerName  string
	customerEmail string
	status        Status
	totalAmount   decimal.Decimal
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewOrder opens a pending order for a customer with identity snapshotted
// at creation time.
func NewOrder(orderNumber string, customerID *uuid.UUID, customerName, customerEmail, notes string) (*Order, error) {
	if err := ValidateOrderNumber(orderNumber); err != nil {
		return nil, err
	}
	return &Order{
		id:            uuid.New(),
		orderNumber:   orderNumber,
		customerID:    customerID,
		customerName:  strings.TrimSpace(customerName),
		customerEmail: strings.TrimSpace(customerEmail),
		status:        StatusPending,
		totalAmount:   decimal.Zero,
		notes:         strings.TrimSpace(notes),
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNumber string,
	customerID *uuid.UUID,
	customerName, customerEmail string,
	status Status,
	totalAmount decimal.Decimal,
	notes string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		customerID:    customerID,
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        status,
		totalAmount:   totalAmount,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) CustomerID() *uuid.UUID       { return o.customerID }
func (o *Order) CustomerName() string         { return o.customerName }
func (o *Order) CustomerEmail() string        { return o.customerEmail }
func (o *Order) Status() Status               { return o.status }
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

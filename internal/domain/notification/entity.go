package notification

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind    = errors.New("invalid notification kind")
	ErrMissingTitle   = errors.New("notification title is required")
	ErrMissingMessage = errors.New("notification message is required")
)

type Kind string

const (
	// KindNewOrder goes to every staff member when a checkout call creates or
	// extends an order.
	KindNewOrder Kind = "new_order"
	// KindStatusUpdate goes to the order's customer on the same checkout call
	// and on later staff status changes.
	KindStatusUpdate Kind = "status_update"
	// KindGeneral is for announcements not tied to a specific order.
	KindGeneral Kind = "general"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNewOrder, KindStatusUpdate, KindGeneral:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

type Notification struct {
	id          uuid.UUID
	recipientID uuid.UUID
	kind        Kind
	title       string
	message     string
	orderID     *uuid.UUID
	payload     map[string]any
	isRead      bool
	createdAt   time.Time
}

func NewNotification(recipientID uuid.UUID, kind Kind, title, message string, orderID *uuid.UUID) (*Notification, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMissingMessage
	}

	return &Notification{
		id:          uuid.New(),
		recipientID: recipientID,
		kind:        kind,
		title:       title,
		message:     message,
		orderID:     orderID,
		isRead:      false,
	}, nil
}

// AttachPayload sets free-form structured context for the client, such as the
// order number behind a new_order notification.
func (n *Notification) AttachPayload(payload map[string]any) {
	n.payload = payload
}

func Reconstruct(id, recipientID uuid.UUID, kind Kind, title, message string, orderID *uuid.UUID, payload map[string]any, isRead bool, createdAt time.Time) *Notification {
	return &Notification{
		id:          id,
		recipientID: recipientID,
		kind:        kind,
		title:       title,
		message:     message,
		orderID:     orderID,
		payload:     payload,
		isRead:      isRead,
		createdAt:   createdAt,
	}
}

func (n *Notification) ID() uuid.UUID           { return n.id }
func (n *Notification) RecipientID() uuid.UUID  { return n.recipientID }
func (n *Notification) Kind() Kind              { return n.kind }
func (n *Notification) Title() string           { return n.title }
func (n *Notification) Message() string         { return n.message }
func (n *Notification) OrderID() *uuid.UUID     { return n.orderID }
func (n *Notification) Payload() map[string]any { return n.payload }
func (n *Notification) IsRead() bool            { return n.isRead }
func (n *Notification) CreatedAt() time.Time    { return n.createdAt }

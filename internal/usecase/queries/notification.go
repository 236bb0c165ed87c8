package queries

import (
	"context"

	"github.com/google/uuid"
)

type NotificationQueries interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationView, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationViewRepo interface {
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*NotificationView, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

type notificationQueriesImpl struct {
	repo NotificationViewRepo
}

func NewNotificationQueries(repo NotificationViewRepo) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationView, error) {
	return q.repo.FindByRecipient(ctx, userID, unreadOnly)
}

func (q *notificationQueriesImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return q.repo.CountUnread(ctx, userID)
}

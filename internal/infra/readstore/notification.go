package readstore

import (
	"context"
	"encoding/json"

	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"
	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(db db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: db}
}

func (s *NotificationReadStore) FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*queries.NotificationView, error) {
	const query = `
		SELECT id, kind, title, message, order_id, payload, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT 100`

	rows, err := s.db.Query(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	views := []*queries.NotificationView{}
	for rows.Next() {
		var (
			view      queries.NotificationView
			orderID   pgtype.UUID
			payload   []byte
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.Kind, &view.Title, &view.Message, &orderID, &payload, &view.IsRead, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &view.Payload); err != nil {
				return nil, infra.WrapRepoErr("invalid notification payload", err)
			}
		}
		view.OrderID = pgconv.UUIDPtrFromPgtype(orderID)
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notifications", err)
	}
	return views, nil
}

func (s *NotificationReadStore) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count unread notifications", err)
	}
	return count, nil
}

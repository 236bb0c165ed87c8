package repository

import (
	"context"
	"encoding/json"
	"time"

	"calmtable/internal/domain/notification"
	"calmtable/internal/infra"
	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, tx db.DBTX, notifications []*notification.Notification) error {
	const query = `
		INSERT INTO notifications (id, recipient_id, kind, title, message, order_id, payload, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, n := range notifications {
		var payload []byte
		if len(n.Payload()) > 0 {
			var err error
			payload, err = json.Marshal(n.Payload())
			if err != nil {
				return infra.WrapRepoErr("invalid notification payload", err)
			}
		}
		_, err := tx.Exec(ctx, query,
			n.ID(),
			n.RecipientID(),
			string(n.Kind()),
			n.Title(),
			n.Message(),
			pgconv.UUIDPtrToPgtype(n.OrderID()),
			payload,
			n.IsRead(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create notification", err)
		}
	}
	return nil
}

// MarkRead is scoped to the recipient so users cannot touch each other's
// notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, tx db.DBTX, id, recipientID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tx db.DBTX, recipientID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notifications read", err)
	}
	return nil
}

// JobRepository persists deferred email work for the external worker.
type JobRepository struct{}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

func (r *JobRepository) Enqueue(ctx context.Context, tx db.DBTX, kind string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO notification_jobs (kind, payload, run_at) VALUES ($1, $2, $3)`,
		kind, payload, pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"calmtable/internal/infra/db"
	"calmtable/internal/pkg/clock"
	"calmtable/internal/pkg/config"
	"calmtable/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	kind    string
	payload []byte
	runAt   time.Time
	err     error
}

func (j *stubJobs) Enqueue(_ context.Context, _ db.DBTX, kind string, payload []byte, runAt time.Time) error {
	if j.err != nil {
		return j.err
	}
	j.kind = kind
	j.payload = payload
	j.runAt = runAt
	return nil
}

type stubTx struct {
	jobs *stubJobs
}

func (t *stubTx) Reservations() shared.ReservationRepository   { return nil }
func (t *stubTx) Orders() shared.OrderRepository               { return nil }
func (t *stubTx) Menu() shared.MenuRepository                  { return nil }
func (t *stubTx) Reviews() shared.ReviewRepository             { return nil }
func (t *stubTx) Notifications() shared.NotificationRepository { return nil }
func (t *stubTx) Users() shared.UserRepository                 { return nil }
func (t *stubTx) Jobs() shared.JobRepository                   { return t.jobs }
func (t *stubTx) Reads() shared.CommandReads                   { return nil }
func (t *stubTx) DB() db.DBTX                                  { return nil }

type stubUoW struct {
	jobs *stubJobs
}

func (u *stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &stubTx{jobs: u.jobs})
}

func (u *stubUoW) WithinReadOnly(context.Context, func(ctx context.Context, db db.DBTX) error) error {
	return nil
}

func (u *stubUoW) WithDB(context.Context, func(ctx context.Context, db db.DBTX) error) error {
	return nil
}

func (u *stubUoW) CommandReads() shared.CommandReads { return nil }

type stubMailer struct {
	sent []Email
}

func (m *stubMailer) Send(_ context.Context, email Email) error {
	m.sent = append(m.sent, email)
	return nil
}

func TestQueuedDispatcher(t *testing.T) {
	email := Email{To: "ada@example.com", Subject: "Reservation confirmed", HTMLBody: "<p>See you soon.</p>"}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("enqueues an email job", func(t *testing.T) {
		jobs := &stubJobs{}
		mailer := &stubMailer{}
		d := NewQueuedDispatcher(&stubUoW{jobs: jobs}, mailer, clock.NewMockClock(now))

		err := d.Dispatch(context.Background(), email)
		require.NoError(t, err)

		assert.Equal(t, "email", jobs.kind)
		assert.Equal(t, now, jobs.runAt)
		assert.Empty(t, mailer.sent)

		var queued Email
		require.NoError(t, json.Unmarshal(jobs.payload, &queued))
		assert.Equal(t, email, queued)
	})

	t.Run("falls back to inline send when enqueue fails", func(t *testing.T) {
		jobs := &stubJobs{err: errors.New("job store unreachable")}
		mailer := &stubMailer{}
		d := NewQueuedDispatcher(&stubUoW{jobs: jobs}, mailer, clock.NewMockClock(now))

		err := d.Dispatch(context.Background(), email)
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, email, mailer.sent[0])
	})
}

func TestNewDispatcher(t *testing.T) {
	mailer := &stubMailer{}
	clk := clock.NewMockClock(time.Now())

	inline := NewDispatcher(config.DispatchConfig{Mode: "inline"}, &stubUoW{}, mailer, clk)
	assert.IsType(t, &InlineDispatcher{}, inline)

	queued := NewDispatcher(config.DispatchConfig{Mode: "queued"}, &stubUoW{}, mailer, clk)
	assert.IsType(t, &QueuedDispatcher{}, queued)
}

package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"calmtable/internal/pkg/clock"
	"calmtable/internal/pkg/config"
	"calmtable/internal/usecase/shared"
)

const jobKindEmail = "email"

// Dispatcher moves email side effects off the request path. The queued
// implementation persists a job for the external worker; inline sends
// synchronously. Either way the caller gets a single Dispatch call per
// message, after its transaction has committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, email Email) error
}

type InlineDispatcher struct {
	mailer Mailer
}

func NewInlineDispatcher(mailer Mailer) *InlineDispatcher {
	return &InlineDispatcher{mailer: mailer}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, email Email) error {
	return d.mailer.Send(ctx, email)
}

type QueuedDispatcher struct {
	uow    shared.UnitOfWork
	mailer Mailer
	clock  clock.Clock
}

func NewQueuedDispatcher(uow shared.UnitOfWork, mailer Mailer, clock clock.Clock) *QueuedDispatcher {
	return &QueuedDispatcher{uow: uow, mailer: mailer, clock: clock}
}

// Dispatch enqueues the email for the worker. When the job store is
// unreachable it degrades to an inline send so the message is not lost.
func (d *QueuedDispatcher) Dispatch(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return err
	}

	enqueueErr := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Jobs().Enqueue(ctx, tx.DB(), jobKindEmail, payload, d.clock.Now())
	})
	if enqueueErr == nil {
		return nil
	}

	slog.Warn("email enqueue failed, sending inline",
		"to", email.To,
		"error", enqueueErr.Error(),
	)
	return d.mailer.Send(ctx, email)
}

func NewDispatcher(cfg config.DispatchConfig, uow shared.UnitOfWork, mailer Mailer, clk clock.Clock) Dispatcher {
	if cfg.Mode == "inline" {
		return NewInlineDispatcher(mailer)
	}
	return NewQueuedDispatcher(uow, mailer, clk)
}

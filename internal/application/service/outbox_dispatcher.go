package service

import (
	"context"
	"time"

	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/logger"
	"github.com/rkstores/billing-api/pkg/notify"
	"github.com/sirupsen/logrus"
)

const (
	dispatchBatchSize   = 20
	dispatchMaxAttempts = 5
	dispatchBaseBackoff = 30 * time.Second
	dispatchSendTimeout = 15 * time.Second
)

// OutboxDispatcher drains the notification outbox in the background. Posting
// only inserts rows; delivery happens here, with retry and backoff, so a
// gateway outage never blocks or fails a sale.
type OutboxDispatcher struct {
	outbox   repository.OutboxRepository
	sender   notify.Sender
	log      *logrus.Entry
	interval time.Duration
}

// NewOutboxDispatcher creates a new background dispatcher
func NewOutboxDispatcher(outbox repository.OutboxRepository, sender notify.Sender, log *logrus.Logger, interval time.Duration) *OutboxDispatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &OutboxDispatcher{
		outbox:   outbox,
		sender:   sender,
		log:      logger.WithModule(log, "outbox"),
		interval: interval,
	}
}

// Run polls the outbox until the context is cancelled
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchOnce(ctx); err != nil {
				d.log.WithError(err).Error("dispatch cycle failed")
			}
		}
	}
}

// DispatchOnce delivers one batch of due notifications
func (d *OutboxDispatcher) DispatchOnce(ctx context.Context) error {
	rows, err := d.outbox.ClaimPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	for _, row := range rows {
		sendCtx, cancel := context.WithTimeout(ctx, dispatchSendTimeout)
		sendErr := d.sender.Send(sendCtx, row.Phone, row.Message)
		cancel()

		if sendErr == nil {
			if err := d.outbox.MarkSent(ctx, row.ID); err != nil {
				d.log.WithError(err).Error("failed to mark notification sent")
			}
			continue
		}

		attempts := row.Attempts + 1
		var nextAttempt *time.Time
		if attempts < dispatchMaxAttempts {
			// Exponential backoff: 30s, 60s, 120s, ...
			at := time.Now().Add(dispatchBaseBackoff << (attempts - 1))
			nextAttempt = &at
		}
		d.log.WithFields(logrus.Fields{
			"document": row.DocumentNumber,
			"attempts": attempts,
		}).WithError(sendErr).Warn("notification delivery failed")

		if err := d.outbox.MarkFailed(ctx, row.ID, sendErr.Error(), nextAttempt); err != nil {
			d.log.WithError(err).Error("failed to mark notification failed")
		}
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"erp-backend/internal/metrics"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"go.uber.org/zap"
)

type Config struct {
	BatchSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

type Worker struct {
	store       *repository.Store
	mailer      Mailer
	log         *zap.Logger
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	now         func() time.Time
}

func NewWorker(store *repository.Store, mailer Mailer, log *zap.Logger, cfg Config) *Worker {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		store:       store,
		mailer:      mailer,
		log:         log,
		batchSize:   batch,
		maxAttempts: maxAttempts,
		retryDelay:  delay,
		now:         time.Now,
	}
}

// Run delivers one batch of due outbox messages. Delivery failures are
// recorded on the message; only storage errors are returned.
func (w *Worker) Run(ctx context.Context) error {
	now := w.now()
	due, err := w.store.Outbox.ListDue(ctx, now, w.batchSize)
	if err != nil {
		return err
	}
	for _, msg := range due {
		attempts := msg.Attempts + 1
		deliverErr := w.deliver(ctx, msg)
		if deliverErr == nil {
			metrics.OutboxDeliveries.WithLabelValues(msg.Kind, "sent").Inc()
			if err := w.store.Outbox.MarkSent(ctx, msg.ID, attempts, w.now()); err != nil {
				return err
			}
			continue
		}

		w.log.Warn("outbox delivery failed",
			zap.String("event_id", msg.EventID),
			zap.String("kind", msg.Kind),
			zap.Int("attempts", attempts),
			zap.Error(deliverErr))
		if attempts >= w.maxAttempts {
			metrics.OutboxDeliveries.WithLabelValues(msg.Kind, "failed").Inc()
			if err := w.store.Outbox.MarkFailed(ctx, msg.ID, attempts, deliverErr.Error(), w.now()); err != nil {
				return err
			}
			continue
		}
		metrics.OutboxDeliveries.WithLabelValues(msg.Kind, "retry").Inc()
		next := w.now().Add(time.Duration(attempts) * w.retryDelay)
		if err := w.store.Outbox.MarkRetry(ctx, msg.ID, attempts, deliverErr.Error(), next); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) deliver(ctx context.Context, msg model.OutboxMessage) error {
	switch msg.Kind {
	case model.OutboxKindNotification:
		var n Notification
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			return err
		}
		return w.store.Notifications.Create(ctx, &model.Notification{
			UserID:     n.UserID,
			Type:       n.Type,
			Title:      n.Title,
			Message:    n.Message,
			Priority:   n.Priority,
			LinkURL:    n.LinkURL,
			EntityType: n.EntityType,
			EntityID:   n.EntityID,
		})
	case model.OutboxKindMail:
		var m Mail
		if err := json.Unmarshal(msg.Payload, &m); err != nil {
			return err
		}
		profiles, err := w.store.Profiles.GetByIDs(ctx, m.UserIDs)
		if err != nil {
			return err
		}
		var to []string
		for _, p := range profiles {
			if p.Email != "" {
				to = append(to, p.Email)
			}
		}
		if len(to) == 0 {
			return nil
		}
		return w.mailer.Send(ctx, to, m.Subject, renderMail(m.Title, m.Message))
	default:
		return fmt.Errorf("unknown outbox kind %q", msg.Kind)
	}
}

// Start runs the worker every interval until ctx is cancelled.
func Start(ctx context.Context, interval time.Duration, w *Worker) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Run(ctx); err != nil {
				w.log.Error("outbox worker error", zap.Error(err))
			}
		}
	}
}

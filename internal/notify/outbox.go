// Package notify queues notifications and mail in the outbox and delivers
// them in the background. Delivery is best effort: failures are retried a
// bounded number of times and never reach the workflow that queued them.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	UserID     uint   `json:"user_id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Priority   string `json:"priority"`
	LinkURL    string `json:"link_url"`
	EntityType string `json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
}

type Mail struct {
	UserIDs []uint `json:"user_ids"`
	Subject string `json:"subject"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Enqueue queues an in-app notification. Call it with the repository of the
// transaction that performs the change being announced.
func Enqueue(ctx context.Context, outbox repository.OutboxRepository, n Notification) error {
	if n.UserID == 0 {
		return nil
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	return add(ctx, outbox, model.OutboxKindNotification, n)
}

func EnqueueMail(ctx context.Context, outbox repository.OutboxRepository, m Mail) error {
	if len(m.UserIDs) == 0 {
		return nil
	}
	return add(ctx, outbox, model.OutboxKindMail, m)
}

func add(ctx context.Context, outbox repository.OutboxRepository, kind string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return outbox.Add(ctx, &model.OutboxMessage{
		EventID:     uuid.NewString(),
		Kind:        kind,
		Payload:     datatypes.JSON(raw),
		Status:      model.OutboxPending,
		AvailableAt: time.Now(),
	})
}

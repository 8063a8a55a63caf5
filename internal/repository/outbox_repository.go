package repository

import (
	"context"
	"time"

	"erp-backend/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	Add(ctx context.Context, msg *model.OutboxMessage) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxMessage, error)
	MarkSent(ctx context.Context, id uint, attempts int, at time.Time) error
	MarkRetry(ctx context.Context, id uint, attempts int, lastErr string, next time.Time) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastErr string, at time.Time) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db}
}

func (r *outboxRepository) Add(ctx context.Context, msg *model.OutboxMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *outboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxMessage, error) {
	var list []model.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ? AND available_at <= ?", model.OutboxPending, now).
		Order("id").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uint, attempts int, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.OutboxSent,
		"attempts":     attempts,
		"last_error":   "",
		"processed_at": at,
	}).Error
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id uint, attempts int, lastErr string, next time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts":     attempts,
		"last_error":   lastErr,
		"available_at": next,
	}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.OutboxFailed,
		"attempts":     attempts,
		"last_error":   lastErr,
		"processed_at": at,
	}).Error
}

func (r *outboxRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

package repository

import (
	"context"

	"erp-backend/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *model.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uint) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db}
}

func (r *auditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]model.AuditLog, error) {
	var list []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id").
		Find(&list).Error
	return list, err
}

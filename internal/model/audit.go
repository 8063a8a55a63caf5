package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ActorID    uint           `json:"actor_id" gorm:"index"`
	Action     string         `json:"action" gorm:"size:64"`
	EntityType string         `json:"entity_type" gorm:"size:64;index:idx_audit_entity"`
	EntityID   uint           `json:"entity_id" gorm:"index:idx_audit_entity"`
	OldStatus  string         `json:"old_status" gorm:"size:32"`
	NewStatus  string         `json:"new_status" gorm:"size:32"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

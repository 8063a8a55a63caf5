package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"index"`
	Type       string     `json:"type" gorm:"size:64"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Priority   string     `json:"priority" gorm:"size:16"`
	LinkURL    string     `json:"link_url"`
	EntityType string     `json:"entity_type" gorm:"size:64"`
	EntityID   uint       `json:"entity_id"`
	ReadAt     *time.Time `json:"read_at"`
}

const (
	OutboxKindNotification = "notification"
	OutboxKindMail         = "mail"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxMessage is written in the same transaction as the workflow change it
// belongs to and delivered later by the notify worker.
type OutboxMessage struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	EventID     string         `json:"event_id" gorm:"uniqueIndex;size:36"`
	Kind        string         `json:"kind" gorm:"size:16"`
	Payload     datatypes.JSON `json:"payload"`
	Status      string         `json:"status" gorm:"size:16;index"`
	Attempts    int            `json:"attempts"`
	LastError   string         `json:"last_error"`
	AvailableAt time.Time      `json:"available_at" gorm:"index"`
	ProcessedAt *time.Time     `json:"processed_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AllModels lists every model for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Profile{},
		&Department{},
		&LeaveType{},
		&LeaveRequest{},
		&LeaveBalance{},
		&AttendanceRecord{},
		&HelpDeskTicket{},
		&HelpDeskApproval{},
		&HelpDeskEvent{},
		&CorrespondenceRecord{},
		&CorrespondenceVersion{},
		&CorrespondenceAttachment{},
		&CorrespondenceApproval{},
		&CorrespondenceEvent{},
		&AuditLog{},
		&Notification{},
		&OutboxMessage{},
	}
}

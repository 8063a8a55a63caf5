package model

import (
	"time"

	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

// Approval stages of a leave request, in order.
const (
	StageReliever   = "reliever"
	StageSupervisor = "supervisor"
	StageHR         = "hr"
	StageCompleted  = "completed"
	StageRejected   = "rejected"
	StageCancelled  = "cancelled"
)

const (
	RequestKindStandard  = "standard"
	RequestKindExtension = "extension"
)

type LeaveType struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:64;not null"`
	Code        string `json:"code" gorm:"uniqueIndex;size:32;not null"`
	DefaultDays int    `json:"default_days"`
	IsPaid      bool   `json:"is_paid" gorm:"default:true"`
}

type LeaveRequest struct {
	gorm.Model
	UserID             uint        `json:"user_id" gorm:"index"`
	LeaveTypeID        uint        `json:"leave_type_id"`
	StartDate          string      `json:"start_date" gorm:"size:10"`
	EndDate            string      `json:"end_date" gorm:"size:10"`
	ResumeDate         string      `json:"resume_date" gorm:"size:10"`
	DaysCount          int         `json:"days_count"`
	Status             LeaveStatus `json:"status" gorm:"size:16;default:pending;index"`
	ApprovalStage      string      `json:"approval_stage" gorm:"size:16"`
	RelieverID         *uint       `json:"reliever_id"`
	SupervisorID       *uint       `json:"supervisor_id"`
	OriginalRequestID  *uint       `json:"original_request_id" gorm:"index"`
	RequestKind        string      `json:"request_kind" gorm:"size:16;default:standard"`
	Reason             string      `json:"reason"`
	HandoverNotes      string      `json:"handover_notes"`
	CancellationReason string      `json:"cancellation_reason"`
	EarlyReturnDate    *string     `json:"early_return_date"`
	ApprovedBy         *uint       `json:"approved_by"`
	ApprovedAt         *time.Time  `json:"approved_at"`

	LeaveType LeaveType `json:"leave_type" gorm:"foreignKey:LeaveTypeID"`
}

// LeaveBalance holds one row per (user, leave type, year).
type LeaveBalance struct {
	gorm.Model
	UserID      uint `json:"user_id" gorm:"uniqueIndex:idx_balance_user_type_year"`
	LeaveTypeID uint `json:"leave_type_id" gorm:"uniqueIndex:idx_balance_user_type_year"`
	Year        int  `json:"year" gorm:"uniqueIndex:idx_balance_user_type_year"`
	TotalDays   int  `json:"total_days"`
	UsedDays    int  `json:"used_days"`

	LeaveType LeaveType `json:"leave_type" gorm:"foreignKey:LeaveTypeID"`
}

func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}

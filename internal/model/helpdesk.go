package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RequestTypeSupport     = "support"
	RequestTypeProcurement = "procurement"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	TicketPendingApproval = "pending_approval"
	TicketNew             = "new"
	TicketAssigned        = "assigned"
	TicketInProgress      = "in_progress"
	TicketOnHold          = "on_hold"
	TicketResolved        = "resolved"
	TicketClosed          = "closed"
	TicketCancelled       = "cancelled"
	TicketRejected        = "rejected"
)

// Procurement approval chain, in order.
const (
	ApprovalStageDepartmentLead        = "department_lead"
	ApprovalStageHeadCorporateServices = "head_corporate_services"
	ApprovalStageManagingDirector      = "managing_director"
)

var ProcurementApprovalStages = []string{
	ApprovalStageDepartmentLead,
	ApprovalStageHeadCorporateServices,
	ApprovalStageManagingDirector,
}

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
	ApprovalSkipped  = "skipped"
)

type HelpDeskTicket struct {
	gorm.Model
	TicketNumber      string     `json:"ticket_number" gorm:"uniqueIndex;size:32"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Category          string     `json:"category" gorm:"size:64"`
	ServiceDepartment string     `json:"service_department" gorm:"size:128;index"`
	RequestType       string     `json:"request_type" gorm:"size:16"`
	Priority          string     `json:"priority" gorm:"size:16"`
	Status            string     `json:"status" gorm:"size:32;index"`
	RequesterID       uint       `json:"requester_id" gorm:"index"`
	AssignedTo        *uint      `json:"assigned_to" gorm:"index"`
	ApprovalRequired  bool       `json:"approval_required"`
	SubmittedAt       time.Time  `json:"submitted_at"`
	SLATargetAt       time.Time  `json:"sla_target_at"`
	PausedAt          *time.Time `json:"paused_at"`
	StartedAt         *time.Time `json:"started_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	CSATRating        *int       `json:"csat_rating"`
	CSATFeedback      string     `json:"csat_feedback"`

	Approvals []HelpDeskApproval `json:"approvals,omitempty" gorm:"foreignKey:TicketID"`
}

type HelpDeskApproval struct {
	gorm.Model
	TicketID      uint       `json:"ticket_id" gorm:"index"`
	ApprovalStage string     `json:"approval_stage" gorm:"size:32"`
	StageOrder    int        `json:"stage_order"`
	Status        string     `json:"status" gorm:"size:16"`
	ApproverID    *uint      `json:"approver_id"`
	Comments      string     `json:"comments"`
	RequestedAt   time.Time  `json:"requested_at"`
	DecidedAt     *time.Time `json:"decided_at"`
}

// HelpDeskEvent is append-only.
type HelpDeskEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TicketID  uint           `json:"ticket_id" gorm:"index"`
	ActorID   uint           `json:"actor_id"`
	EventType string         `json:"event_type" gorm:"size:64"`
	OldStatus string         `json:"old_status" gorm:"size:32"`
	NewStatus string         `json:"new_status" gorm:"size:32"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

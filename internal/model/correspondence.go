package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

const (
	CorrespondenceOpen                  = "open"
	CorrespondenceDraft                 = "draft"
	CorrespondenceSubmitted             = "submitted"
	CorrespondenceApproved              = "approved"
	CorrespondenceRejected              = "rejected"
	CorrespondenceReturnedForCorrection = "returned_for_correction"
	CorrespondenceDispatched            = "dispatched"
	CorrespondenceClosed                = "closed"
)

const (
	DocumentDraft      = "draft"
	DocumentProof      = "proof"
	DocumentSupporting = "supporting"
)

type CorrespondenceRecord struct {
	gorm.Model
	ReferenceNumber        string     `json:"reference_number" gorm:"size:64"`
	Direction              string     `json:"direction" gorm:"size:16"`
	Subject                string     `json:"subject"`
	Summary                string     `json:"summary"`
	Sender                 string     `json:"sender"`
	Recipient              string     `json:"recipient"`
	Priority               string     `json:"priority" gorm:"size:16"`
	DueDate                *string    `json:"due_date"`
	DepartmentName         string     `json:"department_name" gorm:"size:128;index"`
	AssignedDepartmentName string     `json:"assigned_department_name" gorm:"size:128"`
	Status                 string     `json:"status" gorm:"size:32;index"`
	OriginatorID           uint       `json:"originator_id" gorm:"index"`
	CurrentVersion         int        `json:"current_version"`
	ProofOfDeliveryPath    string     `json:"proof_of_delivery_path"`
	ApprovedAt             *time.Time `json:"approved_at"`
	IsLocked               bool       `json:"is_locked"`
}

// CorrespondenceVersion is append-only; version_no is unique per record.
type CorrespondenceVersion struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CorrespondenceID uint      `json:"correspondence_id" gorm:"uniqueIndex:idx_corr_version"`
	VersionNo        int       `json:"version_no" gorm:"uniqueIndex:idx_corr_version"`
	FilePath         string    `json:"file_path"`
	ChangeSummary    string    `json:"change_summary"`
	UploadedBy       uint      `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// CorrespondenceAttachment holds supporting documents. They sit outside the
// version sequence.
type CorrespondenceAttachment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CorrespondenceID uint      `json:"correspondence_id" gorm:"index"`
	FilePath         string    `json:"file_path"`
	FileName         string    `json:"file_name"`
	Summary          string    `json:"summary"`
	UploadedBy       uint      `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}

type CorrespondenceApproval struct {
	gorm.Model
	CorrespondenceID uint       `json:"correspondence_id" gorm:"index"`
	ApprovalStage    string     `json:"approval_stage" gorm:"size:32"`
	ApproverID       *uint      `json:"approver_id"`
	Status           string     `json:"status" gorm:"size:32"`
	Comments         string     `json:"comments"`
	DecidedAt        *time.Time `json:"decided_at"`
}

// CorrespondenceEvent is append-only.
type CorrespondenceEvent struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	CorrespondenceID uint           `json:"correspondence_id" gorm:"index"`
	ActorID          uint           `json:"actor_id"`
	EventType        string         `json:"event_type" gorm:"size:64"`
	OldStatus        string         `json:"old_status" gorm:"size:32"`
	NewStatus        string         `json:"new_status" gorm:"size:32"`
	Details          datatypes.JSON `json:"details"`
	CreatedAt        time.Time      `json:"created_at"`
}

package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EmploymentStatus string

const (
	EmploymentActive    EmploymentStatus = "active"
	EmploymentSuspended EmploymentStatus = "suspended"
	EmploymentOnLeave   EmploymentStatus = "on_leave"
	EmploymentSeparated EmploymentStatus = "separated"
)

func (s EmploymentStatus) Valid() bool {
	switch s {
	case EmploymentActive, EmploymentSuspended, EmploymentOnLeave, EmploymentSeparated:
		return true
	}
	return false
}

// Profile is the user/employee record.
type Profile struct {
	gorm.Model
	FullName         string                      `json:"full_name"`
	Email            string                      `json:"email" gorm:"uniqueIndex;size:191;not null"`
	PasswordHash     string                      `json:"-"`
	Phone            string                      `json:"phone"`
	Role             Role                        `json:"role" gorm:"size:32;default:employee;index"`
	Department       string                      `json:"department" gorm:"size:128;index"`
	OfficeLocation   string                      `json:"office_location" gorm:"size:128"`
	LeadDepartments  datatypes.JSONSlice[string] `json:"lead_departments"`
	IsAdmin          bool                        `json:"is_admin"`
	IsDepartmentLead bool                        `json:"is_department_lead"`
	EmploymentStatus EmploymentStatus            `json:"employment_status" gorm:"size:32;default:active"`

	StatusReason    string     `json:"status_reason"`
	StatusChangedBy *uint      `json:"status_changed_by"`
	StatusChangedAt *time.Time `json:"status_changed_at"`
	SuspendedUntil  *string    `json:"suspended_until"`
	SeparationDate  *string    `json:"separation_date"`
}

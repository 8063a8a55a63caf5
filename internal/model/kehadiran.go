package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceOnLeave = "on_leave"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord is one row per (user, date). Rows with status on_leave are
// populated from approved leave and removed again when that leave shrinks.
type AttendanceRecord struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_attendance_user_date"`
	Date           string     `json:"date" gorm:"size:10;uniqueIndex:idx_attendance_user_date"`
	ClockIn        *time.Time `json:"clock_in"`
	ClockOut       *time.Time `json:"clock_out"`
	TotalHours     float64    `json:"total_hours"`
	Status         string     `json:"status" gorm:"size:32"`
	LeaveRequestID *uint      `json:"leave_request_id" gorm:"index"`
}

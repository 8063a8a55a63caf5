package repository

import (
	"context"

	"erp-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	// MarkLeave writes an on_leave row for each date. Existing rows for that
	// (user, date) are taken over unless someone already clocked in.
	MarkLeave(ctx context.Context, userID, leaveRequestID uint, dates []string) error
	// ClearLeave removes the on_leave rows written for leaveRequestID between
	// from and to inclusive.
	ClearLeave(ctx context.Context, userID, leaveRequestID uint, from, to string) (int64, error)
	ListByUser(ctx context.Context, userID uint, from, to string) ([]model.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) MarkLeave(ctx context.Context, userID, leaveRequestID uint, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	var worked []string
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("user_id = ? AND date IN ? AND clock_in IS NOT NULL", userID, dates).
		Pluck("date", &worked).Error
	if err != nil {
		return err
	}
	skip := make(map[string]bool, len(worked))
	for _, d := range worked {
		skip[d] = true
	}

	rows := make([]model.AttendanceRecord, 0, len(dates))
	for _, d := range dates {
		if skip[d] {
			continue
		}
		id := leaveRequestID
		rows = append(rows, model.AttendanceRecord{
			UserID:         userID,
			Date:           d,
			Status:         model.AttendanceOnLeave,
			LeaveRequestID: &id,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "leave_request_id", "updated_at"}),
	}).Create(&rows).Error
}

func (r *attendanceRepository) ClearLeave(ctx context.Context, userID, leaveRequestID uint, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND leave_request_id = ? AND date >= ? AND date <= ? AND status = ?",
			userID, leaveRequestID, from, to, model.AttendanceOnLeave).
		Delete(&model.AttendanceRecord{})
	return res.RowsAffected, res.Error
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID uint, from, to string) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&list).Error
	return list, err
}

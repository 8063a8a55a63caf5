package repository

import (
	"context"
	"errors"

	"erp-backend/internal/apperr"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one *gorm.DB, so a workflow can
// run all of its writes against the same transaction.
type Store struct {
	db *gorm.DB

	Profiles       ProfileRepository
	Departments    DepartmentRepository
	Leaves         LeaveRepository
	Attendance     AttendanceRepository
	HelpDesk       HelpDeskRepository
	Correspondence CorrespondenceRepository
	Audit          AuditRepository
	Outbox         OutboxRepository
	Notifications  NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Profiles:       NewProfileRepository(db),
		Departments:    NewDepartmentRepository(db),
		Leaves:         NewLeaveRepository(db),
		Attendance:     NewAttendanceRepository(db),
		HelpDesk:       NewHelpDeskRepository(db),
		Correspondence: NewCorrespondenceRepository(db),
		Audit:          NewAuditRepository(db),
		Outbox:         NewOutboxRepository(db),
		Notifications:  NewNotificationRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to one database transaction. The
// transaction commits when fn returns nil and rolls back otherwise; fn's
// error is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func findErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return err
}

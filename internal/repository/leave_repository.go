package repository

import (
	"context"

	"erp-backend/internal/access"
	"erp-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id uint) (*model.LeaveRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]model.LeaveRequest, error)
	ListAwaiting(ctx context.Context, approverID uint, includeHR bool) ([]model.LeaveRequest, error)
	// UpdateIfStatus applies fields only while the request is still in
	// fromStatus and reports whether a row changed.
	UpdateIfStatus(ctx context.Context, id uint, fromStatus model.LeaveStatus, fields map[string]interface{}) (bool, error)
	// FindOverlapping returns the user's pending or approved requests that
	// share at least one day with [from, to].
	FindOverlapping(ctx context.Context, userID uint, from, to string) ([]model.LeaveRequest, error)

	GetLeaveType(ctx context.Context, id uint) (*model.LeaveType, error)
	ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error)
	UpsertLeaveType(ctx context.Context, lt *model.LeaveType) error

	EnsureBalance(ctx context.Context, userID, leaveTypeID uint, year, totalDays int) (*model.LeaveBalance, error)
	GetBalance(ctx context.Context, userID, leaveTypeID uint, year int) (*model.LeaveBalance, error)
	ListBalances(ctx context.Context, userID uint, year int) ([]model.LeaveBalance, error)
	ListBalanceReport(ctx context.Context, filter access.DepartmentFilter, year int) ([]BalanceReportRow, error)
	DeductBalance(ctx context.Context, userID, leaveTypeID uint, year, days int) error
	RestoreBalance(ctx context.Context, userID, leaveTypeID uint, year, days int) (bool, error)
}

// BalanceReportRow is one line of the balance export.
type BalanceReportRow struct {
	UserID     uint
	FullName   string
	Department string
	LeaveType  string
	Year       int
	TotalDays  int
	UsedDays   int
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db}
}

func (r *leaveRepository) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("LeaveType").Create(req).Error
}

func (r *leaveRepository) GetByID(ctx context.Context, id uint) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := r.db.WithContext(ctx).Preload("LeaveType").First(&req, id).Error; err != nil {
		return nil, findErr(err, "leave request")
	}
	return &req, nil
}

func (r *leaveRepository) ListByUser(ctx context.Context, userID uint) ([]model.LeaveRequest, error) {
	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).Preload("LeaveType").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

// ListAwaiting returns pending requests whose current stage belongs to approverID.
func (r *leaveRepository) ListAwaiting(ctx context.Context, approverID uint, includeHR bool) ([]model.LeaveRequest, error) {
	cond := r.db.Where("approval_stage = ? AND reliever_id = ?", model.StageReliever, approverID).
		Or("approval_stage = ? AND supervisor_id = ?", model.StageSupervisor, approverID)
	if includeHR {
		cond = cond.Or("approval_stage = ?", model.StageHR)
	}

	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).Preload("LeaveType").
		Where("status = ?", model.LeavePending).
		Where(cond).
		Order("created_at").
		Find(&list).Error
	return list, err
}

func (r *leaveRepository) UpdateIfStatus(ctx context.Context, id uint, fromStatus model.LeaveStatus, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *leaveRepository) FindOverlapping(ctx context.Context, userID uint, from, to string) ([]model.LeaveRequest, error) {
	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			userID, []model.LeaveStatus{model.LeavePending, model.LeaveApproved}, to, from).
		Order("start_date").
		Find(&list).Error
	return list, err
}

func (r *leaveRepository) GetLeaveType(ctx context.Context, id uint) (*model.LeaveType, error) {
	var lt model.LeaveType
	if err := r.db.WithContext(ctx).First(&lt, id).Error; err != nil {
		return nil, findErr(err, "leave type")
	}
	return &lt, nil
}

func (r *leaveRepository) ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error) {
	var list []model.LeaveType
	err := r.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func (r *leaveRepository) UpsertLeaveType(ctx context.Context, lt *model.LeaveType) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "default_days", "is_paid", "updated_at"}),
	}).Create(lt).Error
}

// EnsureBalance returns the balance row for (user, type, year), creating it
// with totalDays if it does not exist yet.
func (r *leaveRepository) EnsureBalance(ctx context.Context, userID, leaveTypeID uint, year, totalDays int) (*model.LeaveBalance, error) {
	b := model.LeaveBalance{UserID: userID, LeaveTypeID: leaveTypeID, Year: year}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		Attrs(model.LeaveBalance{TotalDays: totalDays}).
		Omit("LeaveType").
		FirstOrCreate(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *leaveRepository) GetBalance(ctx context.Context, userID, leaveTypeID uint, year int) (*model.LeaveBalance, error) {
	var b model.LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, findErr(err, "leave balance")
	}
	return &b, nil
}

func (r *leaveRepository) ListBalances(ctx context.Context, userID uint, year int) ([]model.LeaveBalance, error) {
	var list []model.LeaveBalance
	err := r.db.WithContext(ctx).Preload("LeaveType").
		Where("user_id = ? AND year = ?", userID, year).
		Order("leave_type_id").
		Find(&list).Error
	return list, err
}

func (r *leaveRepository) ListBalanceReport(ctx context.Context, filter access.DepartmentFilter, year int) ([]BalanceReportRow, error) {
	var rows []BalanceReportRow
	if filter.MatchesNothing() {
		return rows, nil
	}
	q := r.db.WithContext(ctx).Table("leave_balances").
		Select(`leave_balances.user_id, profiles.full_name, profiles.department,
			leave_types.name AS leave_type, leave_balances.year,
			leave_balances.total_days, leave_balances.used_days`).
		Joins("JOIN profiles ON profiles.id = leave_balances.user_id").
		Joins("JOIN leave_types ON leave_types.id = leave_balances.leave_type_id").
		Where("leave_balances.year = ? AND leave_balances.deleted_at IS NULL", year)
	if !filter.Unscoped {
		q = q.Where("LOWER(profiles.department) IN ?", filter.QueryValues())
	}
	err := q.Order("profiles.full_name, leave_types.name").Scan(&rows).Error
	return rows, err
}

// DeductBalance adds days to used_days in a single statement.
func (r *leaveRepository) DeductBalance(ctx context.Context, userID, leaveTypeID uint, year, days int) error {
	res := r.db.WithContext(ctx).Model(&model.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		Update("used_days", gorm.Expr("used_days + ?", days))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return findErr(gorm.ErrRecordNotFound, "leave balance")
	}
	return nil
}

// RestoreBalance subtracts days from used_days, clamping at zero, in a single
// statement. It reports false when no balance row exists.
func (r *leaveRepository) RestoreBalance(ctx context.Context, userID, leaveTypeID uint, year, days int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		Update("used_days", gorm.Expr("CASE WHEN used_days < ? THEN 0 ELSE used_days - ? END", days, days))
	return res.RowsAffected > 0, res.Error
}

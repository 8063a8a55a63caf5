package repository

import (
	"context"

	"erp-backend/internal/access"
	"erp-backend/internal/model"

	"gorm.io/gorm"
)

// CorrespondenceQuery selects records for a list view. When Participant is
// set, records the user originated or that belong to OwnDepartment are
// returned; otherwise Departments filters by department_name.
type CorrespondenceQuery struct {
	Participant   *uint
	OwnDepartment string
	Departments   access.DepartmentFilter
	Status        string
	Direction     string
}

type CorrespondenceRepository interface {
	Create(ctx context.Context, rec *model.CorrespondenceRecord) error
	GetByID(ctx context.Context, id uint) (*model.CorrespondenceRecord, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, q CorrespondenceQuery) ([]model.CorrespondenceRecord, error)

	// BumpVersion increments current_version in place and returns the new value.
	BumpVersion(ctx context.Context, id uint) (int, error)
	AddVersion(ctx context.Context, v *model.CorrespondenceVersion) error
	ListVersions(ctx context.Context, id uint) ([]model.CorrespondenceVersion, error)
	AddAttachment(ctx context.Context, a *model.CorrespondenceAttachment) error
	ListAttachments(ctx context.Context, id uint) ([]model.CorrespondenceAttachment, error)

	PendingApproval(ctx context.Context, id uint) (*model.CorrespondenceApproval, error)
	CreateApproval(ctx context.Context, a *model.CorrespondenceApproval) error
	UpdateApproval(ctx context.Context, approvalID uint, fields map[string]interface{}) error
	ListApprovals(ctx context.Context, id uint) ([]model.CorrespondenceApproval, error)

	AddEvent(ctx context.Context, e *model.CorrespondenceEvent) error
	ListEvents(ctx context.Context, id uint) ([]model.CorrespondenceEvent, error)
}

type correspondenceRepository struct {
	db *gorm.DB
}

func NewCorrespondenceRepository(db *gorm.DB) CorrespondenceRepository {
	return &correspondenceRepository{db}
}

func (r *correspondenceRepository) Create(ctx context.Context, rec *model.CorrespondenceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *correspondenceRepository) GetByID(ctx context.Context, id uint) (*model.CorrespondenceRecord, error) {
	var rec model.CorrespondenceRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, findErr(err, "correspondence record")
	}
	return &rec, nil
}

func (r *correspondenceRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.CorrespondenceRecord{}).Where("id = ?", id).Updates(fields).Error
}

func (r *correspondenceRepository) List(ctx context.Context, q CorrespondenceQuery) ([]model.CorrespondenceRecord, error) {
	var list []model.CorrespondenceRecord
	db := r.db.WithContext(ctx).Model(&model.CorrespondenceRecord{})
	if q.Participant != nil {
		own := access.DepartmentFilter{Departments: []string{access.CanonicalDepartment(q.OwnDepartment)}}
		if q.OwnDepartment == "" {
			db = db.Where("originator_id = ?", *q.Participant)
		} else {
			db = db.Where("originator_id = ? OR LOWER(department_name) IN ?", *q.Participant, own.QueryValues())
		}
	} else {
		if q.Departments.MatchesNothing() {
			return list, nil
		}
		if !q.Departments.Unscoped {
			db = db.Where("LOWER(department_name) IN ?", q.Departments.QueryValues())
		}
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Direction != "" {
		db = db.Where("direction = ?", q.Direction)
	}
	err := db.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *correspondenceRepository) BumpVersion(ctx context.Context, id uint) (int, error) {
	res := r.db.WithContext(ctx).Model(&model.CorrespondenceRecord{}).
		Where("id = ?", id).
		Update("current_version", gorm.Expr("current_version + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, findErr(gorm.ErrRecordNotFound, "correspondence record")
	}
	var version int
	err := r.db.WithContext(ctx).Model(&model.CorrespondenceRecord{}).
		Where("id = ?", id).
		Pluck("current_version", &version).Error
	return version, err
}

func (r *correspondenceRepository) AddVersion(ctx context.Context, v *model.CorrespondenceVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *correspondenceRepository) ListVersions(ctx context.Context, id uint) ([]model.CorrespondenceVersion, error) {
	var list []model.CorrespondenceVersion
	err := r.db.WithContext(ctx).Where("correspondence_id = ?", id).Order("version_no").Find(&list).Error
	return list, err
}

func (r *correspondenceRepository) AddAttachment(ctx context.Context, a *model.CorrespondenceAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *correspondenceRepository) ListAttachments(ctx context.Context, id uint) ([]model.CorrespondenceAttachment, error) {
	var list []model.CorrespondenceAttachment
	err := r.db.WithContext(ctx).Where("correspondence_id = ?", id).Order("id").Find(&list).Error
	return list, err
}

// PendingApproval returns the oldest pending approval row, or nil if none.
func (r *correspondenceRepository) PendingApproval(ctx context.Context, id uint) (*model.CorrespondenceApproval, error) {
	var list []model.CorrespondenceApproval
	err := r.db.WithContext(ctx).
		Where("correspondence_id = ? AND status = ?", id, model.ApprovalPending).
		Order("id").Limit(1).
		Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (r *correspondenceRepository) CreateApproval(ctx context.Context, a *model.CorrespondenceApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *correspondenceRepository) UpdateApproval(ctx context.Context, approvalID uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.CorrespondenceApproval{}).Where("id = ?", approvalID).Updates(fields).Error
}

func (r *correspondenceRepository) ListApprovals(ctx context.Context, id uint) ([]model.CorrespondenceApproval, error) {
	var list []model.CorrespondenceApproval
	err := r.db.WithContext(ctx).Where("correspondence_id = ?", id).Order("id").Find(&list).Error
	return list, err
}

func (r *correspondenceRepository) AddEvent(ctx context.Context, e *model.CorrespondenceEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *correspondenceRepository) ListEvents(ctx context.Context, id uint) ([]model.CorrespondenceEvent, error) {
	var list []model.CorrespondenceEvent
	err := r.db.WithContext(ctx).Where("correspondence_id = ?", id).Order("id").Find(&list).Error
	return list, err
}

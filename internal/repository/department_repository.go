package repository

import (
	"context"

	"erp-backend/internal/access"
	"erp-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DepartmentRepository interface {
	Upsert(ctx context.Context, d *model.Department) error
	List(ctx context.Context) ([]model.Department, error)
	OfficesForDepartments(ctx context.Context, departments []string) ([]string, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db}
}

func (r *departmentRepository) Upsert(ctx context.Context, d *model.Department) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"office_location", "updated_at"}),
	}).Create(d).Error
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var list []model.Department
	err := r.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

// OfficesForDepartments returns the office locations tied to the given
// departments, either through the department roster or through the offices
// of the people working in them.
func (r *departmentRepository) OfficesForDepartments(ctx context.Context, departments []string) ([]string, error) {
	values := access.DepartmentFilter{Departments: departments}.QueryValues()
	if len(values) == 0 {
		return nil, nil
	}

	var fromRoster []string
	err := r.db.WithContext(ctx).Model(&model.Department{}).
		Where("LOWER(name) IN ? AND office_location <> ''", values).
		Distinct().
		Pluck("office_location", &fromRoster).Error
	if err != nil {
		return nil, err
	}

	var fromProfiles []string
	err = r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("LOWER(department) IN ? AND office_location <> ''", values).
		Distinct().
		Pluck("office_location", &fromProfiles).Error
	if err != nil {
		return nil, err
	}
	return append(fromRoster, fromProfiles...), nil
}

package repository

import (
	"context"

	"erp-backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id uint) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.Profile, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	ListLeads(ctx context.Context) ([]model.Profile, error)
	ListByRoles(ctx context.Context, roles ...model.Role) ([]model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db}
}

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, findErr(err, "profile")
	}
	return &p, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&p).Error; err != nil {
		return nil, findErr(err, "profile")
	}
	return &p, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.Profile, error) {
	var list []model.Profile
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *profileRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return findErr(gorm.ErrRecordNotFound, "profile")
	}
	return nil
}

// ListLeads returns every lead who has not been separated.
func (r *profileRepository) ListLeads(ctx context.Context) ([]model.Profile, error) {
	return r.ListByRoles(ctx, model.RoleLead)
}

func (r *profileRepository) ListByRoles(ctx context.Context, roles ...model.Role) ([]model.Profile, error) {
	var list []model.Profile
	err := r.db.WithContext(ctx).
		Where("role IN ? AND employment_status <> ?", roles, model.EmploymentSeparated).
		Order("id").
		Find(&list).Error
	return list, err
}

func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var list []model.Profile
	err := r.db.WithContext(ctx).Order("full_name").Find(&list).Error
	return list, err
}

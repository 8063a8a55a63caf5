package repository

import (
	"context"

	"erp-backend/internal/access"
	"erp-backend/internal/model"

	"gorm.io/gorm"
)

// TicketQuery selects tickets for a list view. Participant restricts to
// tickets the user requested or is assigned to; Departments restricts by
// service department.
type TicketQuery struct {
	Participant *uint
	Departments access.DepartmentFilter
	Status      string
}

type HelpDeskRepository interface {
	Create(ctx context.Context, t *model.HelpDeskTicket) error
	GetByID(ctx context.Context, id uint) (*model.HelpDeskTicket, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, q TicketQuery) ([]model.HelpDeskTicket, error)

	CreateApprovals(ctx context.Context, approvals []model.HelpDeskApproval) error
	ListApprovals(ctx context.Context, ticketID uint) ([]model.HelpDeskApproval, error)
	UpdateApproval(ctx context.Context, id uint, fields map[string]interface{}) error
	SkipPendingApprovals(ctx context.Context, ticketID uint) error

	AddEvent(ctx context.Context, e *model.HelpDeskEvent) error
	ListEvents(ctx context.Context, ticketID uint) ([]model.HelpDeskEvent, error)
}

type helpDeskRepository struct {
	db *gorm.DB
}

func NewHelpDeskRepository(db *gorm.DB) HelpDeskRepository {
	return &helpDeskRepository{db}
}

func (r *helpDeskRepository) Create(ctx context.Context, t *model.HelpDeskTicket) error {
	return r.db.WithContext(ctx).Omit("Approvals").Create(t).Error
}

func (r *helpDeskRepository) GetByID(ctx context.Context, id uint) (*model.HelpDeskTicket, error) {
	var t model.HelpDeskTicket
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("stage_order") }).
		First(&t, id).Error
	if err != nil {
		return nil, findErr(err, "ticket")
	}
	return &t, nil
}

func (r *helpDeskRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.HelpDeskTicket{}).Where("id = ?", id).Updates(fields).Error
}

func (r *helpDeskRepository) List(ctx context.Context, q TicketQuery) ([]model.HelpDeskTicket, error) {
	var list []model.HelpDeskTicket
	if q.Departments.MatchesNothing() {
		return list, nil
	}
	db := r.db.WithContext(ctx).Model(&model.HelpDeskTicket{})
	if q.Participant != nil {
		db = db.Where("requester_id = ? OR assigned_to = ?", *q.Participant, *q.Participant)
	}
	if !q.Departments.Unscoped {
		db = db.Where("LOWER(service_department) IN ?", q.Departments.QueryValues())
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	err := db.Order("submitted_at desc").Find(&list).Error
	return list, err
}

func (r *helpDeskRepository) CreateApprovals(ctx context.Context, approvals []model.HelpDeskApproval) error {
	if len(approvals) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&approvals).Error
}

func (r *helpDeskRepository) ListApprovals(ctx context.Context, ticketID uint) ([]model.HelpDeskApproval, error) {
	var list []model.HelpDeskApproval
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("stage_order").Find(&list).Error
	return list, err
}

func (r *helpDeskRepository) UpdateApproval(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.HelpDeskApproval{}).Where("id = ?", id).Updates(fields).Error
}

func (r *helpDeskRepository) SkipPendingApprovals(ctx context.Context, ticketID uint) error {
	return r.db.WithContext(ctx).Model(&model.HelpDeskApproval{}).
		Where("ticket_id = ? AND status = ?", ticketID, model.ApprovalPending).
		Update("status", model.ApprovalSkipped).Error
}

func (r *helpDeskRepository) AddEvent(ctx context.Context, e *model.HelpDeskEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *helpDeskRepository) ListEvents(ctx context.Context, ticketID uint) ([]model.HelpDeskEvent, error) {
	var list []model.HelpDeskEvent
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("id").Find(&list).Error
	return list, err
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
	"erp-backend/internal/notify"
	"erp-backend/internal/repository"

	"gorm.io/datatypes"
)

const entityProfile = "profile"

type ChangeStatusInput struct {
	Status         string  `json:"employment_status"`
	Reason         string  `json:"reason"`
	SuspendedUntil *string `json:"suspended_until"`
	SeparationDate *string `json:"separation_date"`
}

type ChangeRoleInput struct {
	Role            string   `json:"role"`
	LeadDepartments []string `json:"lead_departments"`
}

type UpdateProfileInput struct {
	FullName       *string `json:"full_name"`
	Phone          *string `json:"phone"`
	OfficeLocation *string `json:"office_location"`
}

type ProfileUsecase struct {
	store    *repository.Store
	resolver *access.Resolver
	now      func() time.Time
}

func NewProfileUsecase(store *repository.Store, resolver *access.Resolver) *ProfileUsecase {
	return &ProfileUsecase{store: store, resolver: resolver, now: time.Now}
}

func (u *ProfileUsecase) Me(ctx context.Context, actorID uint) (*model.Profile, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	return a.Profile, nil
}

// ChangeStatus sets another profile's employment status. Separation also
// strips every privilege in the same update.
func (u *ProfileUsecase) ChangeStatus(ctx context.Context, actorID, targetID uint, in ChangeStatusInput) (*model.Profile, error) {
	ctx, span := startSpan(ctx, "profile.ChangeStatus", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if !a.IsAdminLike() {
		return nil, apperr.Forbidden("only administrators can change employment status")
	}
	if targetID == a.ID() {
		return nil, apperr.Validation("employment_status", "you cannot change your own employment status")
	}
	status := model.EmploymentStatus(in.Status)
	if !status.Valid() {
		return nil, apperr.Validation("employment_status", "employment_status must be active, suspended, on_leave or separated")
	}
	target, err := u.store.Profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == model.RoleSuperAdmin && a.Profile.Role != model.RoleSuperAdmin {
		return nil, apperr.Forbidden("only a super admin can change a super admin's status")
	}

	now := u.now()
	fields := map[string]interface{}{
		"employment_status": status,
		"status_reason":     strings.TrimSpace(in.Reason),
		"status_changed_by": a.ID(),
		"status_changed_at": now,
	}
	switch status {
	case model.EmploymentSuspended:
		if in.SuspendedUntil != nil && *in.SuspendedUntil != "" {
			if _, err := parseDate("suspended_until", *in.SuspendedUntil); err != nil {
				return nil, err
			}
			fields["suspended_until"] = *in.SuspendedUntil
		}
	case model.EmploymentSeparated:
		date := now.Format(dateLayout)
		if in.SeparationDate != nil && *in.SeparationDate != "" {
			if _, err := parseDate("separation_date", *in.SeparationDate); err != nil {
				return nil, err
			}
			date = *in.SeparationDate
		}
		fields["separation_date"] = date
		fields["role"] = model.RoleVisitor
		fields["is_admin"] = false
		fields["is_department_lead"] = false
		fields["lead_departments"] = datatypes.JSONSlice[string]{}
	case model.EmploymentActive:
		fields["suspended_until"] = nil
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Profiles.Update(ctx, target.ID, fields); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "profile_status_changed", entityProfile, target.ID,
			string(target.EmploymentStatus), string(status), map[string]interface{}{
				"reason":        in.Reason,
				"previous_role": target.Role,
			}); err != nil {
			return err
		}
		if status == model.EmploymentSeparated {
			return nil
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     target.ID,
			Type:       "employment_status_changed",
			Title:      "Your employment status changed",
			Message:    fmt.Sprintf("Your status is now %s.", strings.ReplaceAll(string(status), "_", " ")),
			Priority:   "high",
			EntityType: entityProfile,
			EntityID:   target.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.store.Profiles.GetByID(ctx, target.ID)
}

func (u *ProfileUsecase) ChangeRole(ctx context.Context, actorID, targetID uint, in ChangeRoleInput) (*model.Profile, error) {
	ctx, span := startSpan(ctx, "profile.ChangeRole", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if !a.IsAdminLike() {
		return nil, apperr.Forbidden("only administrators can change roles")
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, apperr.Validation("role", "unknown role "+in.Role)
	}
	if targetID == a.ID() {
		return nil, apperr.Validation("role", "you cannot change your own role")
	}
	if role.IsAdminLike() && a.Profile.Role != model.RoleSuperAdmin {
		return nil, apperr.Forbidden("only a super admin can grant administrator roles")
	}
	target, err := u.store.Profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role.IsAdminLike() && a.Profile.Role != model.RoleSuperAdmin {
		return nil, apperr.Forbidden("only a super admin can change an administrator's role")
	}
	if target.EmploymentStatus == model.EmploymentSeparated {
		return nil, apperr.Validation("role", "separated profiles cannot be given a role")
	}

	leads := datatypes.JSONSlice[string]{}
	if role == model.RoleLead {
		for _, d := range in.LeadDepartments {
			if c := access.CanonicalDepartment(d); c != "" {
				leads = append(leads, c)
			}
		}
	}
	fields := map[string]interface{}{
		"role":               role,
		"is_admin":           role.IsAdminLike(),
		"is_department_lead": role == model.RoleLead,
		"lead_departments":   leads,
	}

	err = u.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Profiles.Update(ctx, target.ID, fields); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, a.ID(), "profile_role_changed", entityProfile, target.ID, "", "", map[string]interface{}{
			"old_role":         target.Role,
			"new_role":         role,
			"lead_departments": []string(leads),
		}); err != nil {
			return err
		}
		return notify.Enqueue(ctx, tx.Outbox, notify.Notification{
			UserID:     target.ID,
			Type:       "role_changed",
			Title:      "Your role changed",
			Message:    fmt.Sprintf("Your role is now %s.", strings.ReplaceAll(string(role), "_", " ")),
			EntityType: entityProfile,
			EntityID:   target.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.store.Profiles.GetByID(ctx, target.ID)
}

// UpdateOwnProfile lets an employee edit their contact details.
func (u *ProfileUsecase) UpdateOwnProfile(ctx context.Context, actorID uint, in UpdateProfileInput) (*model.Profile, error) {
	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.Validation("full_name", "full_name cannot be empty")
		}
		fields["full_name"] = name
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.OfficeLocation != nil {
		fields["office_location"] = strings.TrimSpace(*in.OfficeLocation)
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("body", "nothing to update")
	}
	if err := u.store.Profiles.Update(ctx, a.ID(), fields); err != nil {
		return nil, err
	}
	return u.store.Profiles.GetByID(ctx, a.ID())
}

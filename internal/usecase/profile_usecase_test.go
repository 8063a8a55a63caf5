package usecase

import (
	"testing"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
)

func TestChangeStatusSeparationStripsPrivileges(t *testing.T) {
	f := newFixture(t)
	uc := NewProfileUsecase(f.store, f.resolver)
	uc.now = fixedClock("2024-08-01T12:00:00Z")
	admin := f.profile("Ana Admin", model.RoleAdmin, "Admin & HR")
	lead := f.profile("Leo Lead", model.RoleLead, "IT", "IT", "Finance")

	got, err := uc.ChangeStatus(f.ctx, admin.ID, lead.ID, ChangeStatusInput{Status: "separated", Reason: "resigned"})
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if got.EmploymentStatus != model.EmploymentSeparated || got.Role != model.RoleVisitor {
		t.Fatalf("unexpected profile %+v", got)
	}
	if got.IsAdmin || got.IsDepartmentLead || len(got.LeadDepartments) != 0 {
		t.Fatalf("privileges not stripped: %+v", got)
	}
	if got.SeparationDate == nil || *got.SeparationDate != "2024-08-01" {
		t.Fatalf("separation_date=%v", got.SeparationDate)
	}
	if got.StatusChangedBy == nil || *got.StatusChangedBy != admin.ID || got.StatusReason != "resigned" {
		t.Fatalf("status metadata not recorded: %+v", got)
	}

	logs, err := f.store.Audit.ListByEntity(f.ctx, entityProfile, lead.ID)
	if err != nil || len(logs) != 1 || logs[0].NewStatus != string(model.EmploymentSeparated) {
		t.Fatalf("audit=%+v err=%v", logs, err)
	}
	// Separated people are not notified in-app.
	if n := f.outboxCount(); n != 0 {
		t.Fatalf("outbox=%d, want 0", n)
	}

	// A separated profile can no longer act.
	_, err = uc.Me(f.ctx, lead.ID)
	wantKind(t, err, apperr.KindUnauthorized)
}

func TestChangeStatusRules(t *testing.T) {
	f := newFixture(t)
	uc := NewProfileUsecase(f.store, f.resolver)
	admin := f.profile("Ana Admin", model.RoleAdmin, "Admin & HR")
	super := f.profile("Sid Super", model.RoleSuperAdmin, "Board")
	emp := f.profile("Eve Emp", model.RoleEmployee, "Sales")

	_, err := uc.ChangeStatus(f.ctx, admin.ID, admin.ID, ChangeStatusInput{Status: "suspended"})
	wantKind(t, err, apperr.KindValidation)

	_, err = uc.ChangeStatus(f.ctx, emp.ID, admin.ID, ChangeStatusInput{Status: "suspended"})
	wantKind(t, err, apperr.KindForbidden)

	_, err = uc.ChangeStatus(f.ctx, admin.ID, emp.ID, ChangeStatusInput{Status: "retired"})
	wantKind(t, err, apperr.KindValidation)

	_, err = uc.ChangeStatus(f.ctx, admin.ID, super.ID, ChangeStatusInput{Status: "suspended"})
	wantKind(t, err, apperr.KindForbidden)

	_, err = uc.ChangeStatus(f.ctx, admin.ID, 404, ChangeStatusInput{Status: "suspended"})
	wantKind(t, err, apperr.KindNotFound)

	until := "2024-09-30"
	got, err := uc.ChangeStatus(f.ctx, admin.ID, emp.ID, ChangeStatusInput{Status: "suspended", SuspendedUntil: &until})
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if got.SuspendedUntil == nil || *got.SuspendedUntil != until {
		t.Fatalf("suspended_until=%v", got.SuspendedUntil)
	}
	if got.Role != model.RoleEmployee {
		t.Fatalf("suspension must not touch the role")
	}

	got, err = uc.ChangeStatus(f.ctx, admin.ID, emp.ID, ChangeStatusInput{Status: "active"})
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if got.EmploymentStatus != model.EmploymentActive || got.SuspendedUntil != nil {
		t.Fatalf("unexpected profile %+v", got)
	}
	if n := f.outboxCount(); n != 2 {
		t.Fatalf("outbox=%d, want 2", n)
	}
}

func TestChangeRole(t *testing.T) {
	f := newFixture(t)
	uc := NewProfileUsecase(f.store, f.resolver)
	admin := f.profile("Ana Admin", model.RoleAdmin, "Admin & HR")
	super := f.profile("Sid Super", model.RoleSuperAdmin, "Board")
	emp := f.profile("Eve Emp", model.RoleEmployee, "Sales")

	got, err := uc.ChangeRole(f.ctx, admin.ID, emp.ID, ChangeRoleInput{Role: "Lead", LeadDepartments: []string{"finance", " Sales ", ""}})
	if err != nil {
		t.Fatalf("promote to lead: %v", err)
	}
	if got.Role != model.RoleLead || !got.IsDepartmentLead || got.IsAdmin {
		t.Fatalf("unexpected profile %+v", got)
	}
	if len(got.LeadDepartments) != 2 || got.LeadDepartments[0] != "Accounts" || got.LeadDepartments[1] != "Sales" {
		t.Fatalf("lead_departments=%v", got.LeadDepartments)
	}

	_, err = uc.ChangeRole(f.ctx, admin.ID, emp.ID, ChangeRoleInput{Role: "admin"})
	wantKind(t, err, apperr.KindForbidden)
	_, err = uc.ChangeRole(f.ctx, admin.ID, super.ID, ChangeRoleInput{Role: "employee"})
	wantKind(t, err, apperr.KindForbidden)
	_, err = uc.ChangeRole(f.ctx, admin.ID, emp.ID, ChangeRoleInput{Role: "owner"})
	wantKind(t, err, apperr.KindValidation)
	_, err = uc.ChangeRole(f.ctx, super.ID, super.ID, ChangeRoleInput{Role: "admin"})
	wantKind(t, err, apperr.KindValidation)

	got, err = uc.ChangeRole(f.ctx, super.ID, emp.ID, ChangeRoleInput{Role: "admin"})
	if err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	if !got.IsAdmin || got.IsDepartmentLead || len(got.LeadDepartments) != 0 {
		t.Fatalf("unexpected admin profile %+v", got)
	}

	if _, err := uc.ChangeStatus(f.ctx, super.ID, emp.ID, ChangeStatusInput{Status: "separated"}); err != nil {
		t.Fatalf("separate: %v", err)
	}
	_, err = uc.ChangeRole(f.ctx, super.ID, emp.ID, ChangeRoleInput{Role: "employee"})
	wantKind(t, err, apperr.KindValidation)
}

func TestUpdateOwnProfile(t *testing.T) {
	f := newFixture(t)
	uc := NewProfileUsecase(f.store, f.resolver)
	emp := f.profile("Eve Emp", model.RoleEmployee, "Sales")

	name, phone := " Eve Emeka ", "+234 800 000"
	got, err := uc.UpdateOwnProfile(f.ctx, emp.ID, UpdateProfileInput{FullName: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FullName != "Eve Emeka" || got.Phone != phone || got.Department != "Sales" {
		t.Fatalf("unexpected profile %+v", got)
	}

	blank := ""
	_, err = uc.UpdateOwnProfile(f.ctx, emp.ID, UpdateProfileInput{FullName: &blank})
	wantKind(t, err, apperr.KindValidation)
	_, err = uc.UpdateOwnProfile(f.ctx, emp.ID, UpdateProfileInput{})
	wantKind(t, err, apperr.KindValidation)
}

package access

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"erp-backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeProfiles map[uint]*model.Profile

func (f fakeProfiles) GetByID(_ context.Context, id uint) (*model.Profile, error) {
	p, ok := f[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

type fakeOffices map[string]string

func (f fakeOffices) OfficesForDepartments(_ context.Context, depts []string) ([]string, error) {
	var out []string
	for _, d := range depts {
		if o, ok := f[d]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func profile(id uint, role model.Role, dept string, leads ...string) *model.Profile {
	p := &model.Profile{
		Model:            gorm.Model{ID: id},
		Role:             role,
		Department:       dept,
		EmploymentStatus: model.EmploymentActive,
	}
	if len(leads) > 0 {
		p.LeadDepartments = datatypes.JSONSlice[string](leads)
	}
	return p
}

func TestResolve(t *testing.T) {
	profiles := fakeProfiles{
		1: profile(1, model.RoleSuperAdmin, "Executive"),
		2: profile(2, model.RoleLead, "Operations", "Finance", "IT"),
		3: profile(3, model.RoleLead, "Human Resources"),
		4: profile(4, model.RoleEmployee, "IT"),
		5: profile(5, model.RoleLead, ""),
	}
	profiles[2].OfficeLocation = "Lagos"
	r := NewResolver(profiles, fakeOffices{"Accounts": "Abuja", "IT": "Lagos"})
	ctx := context.Background()

	admin, err := r.Resolve(ctx, 1)
	if err != nil || admin == nil {
		t.Fatalf("admin scope: %v %v", admin, err)
	}
	if !admin.IsAdminLike || len(admin.ManagedDepartments) != 0 {
		t.Fatalf("admin should be unscoped, got %+v", admin)
	}

	lead, err := r.Resolve(ctx, 2)
	if err != nil {
		t.Fatalf("lead scope: %v", err)
	}
	if want := []string{"Accounts", "IT"}; !reflect.DeepEqual(lead.ManagedDepartments, want) {
		t.Fatalf("managed=%v, want %v", lead.ManagedDepartments, want)
	}
	if want := []string{"Abuja", "Lagos"}; !reflect.DeepEqual(lead.ManagedOffices, want) {
		t.Fatalf("offices=%v, want %v", lead.ManagedOffices, want)
	}
	if !lead.IsFinanceGlobalLead || lead.IsHRGlobalLead {
		t.Fatalf("unexpected global flags %+v", lead)
	}

	hrLead, _ := r.Resolve(ctx, 3)
	if !hrLead.IsHRGlobalLead || hrLead.ManagedDepartments[0] != DeptAdminHR {
		t.Fatalf("fallback to own department failed: %+v", hrLead)
	}

	emp, err := r.Resolve(ctx, 4)
	if err != nil || emp != nil {
		t.Fatalf("employee should have no admin scope, got %+v %v", emp, err)
	}
}

func TestDepartmentScope(t *testing.T) {
	admin := &AdminScope{Role: model.RoleAdmin, IsAdminLike: true}
	financeLead := &AdminScope{Role: model.RoleLead, ManagedDepartments: []string{"Accounts"}, IsFinanceGlobalLead: true}
	itLead := &AdminScope{Role: model.RoleLead, ManagedDepartments: []string{"IT"}}
	emptyLead := &AdminScope{Role: model.RoleLead, ManagedDepartments: []string{}}
	_ = emptyLead

	if f := DepartmentScope(admin, DomainGeneral); !f.Unscoped {
		t.Fatalf("admin should be unscoped")
	}
	if f := DepartmentScope(financeLead, DomainFinance); !f.Unscoped {
		t.Fatalf("finance lead should be unscoped in finance")
	}
	if f := DepartmentScope(financeLead, DomainHR); f.Unscoped || !reflect.DeepEqual(f.Departments, []string{"Accounts"}) {
		t.Fatalf("finance lead in hr got %+v", f)
	}
	if f := DepartmentScope(itLead, DomainGeneral); !f.Allows("IT") || f.Allows("Accounts") {
		t.Fatalf("it lead filter wrong: %+v", f)
	}
	if f := DepartmentScope(nil, DomainGeneral); f.Unscoped || !f.MatchesNothing() {
		t.Fatalf("nil scope must fail closed")
	}
}

func TestDepartmentScopeFailsClosedForEmptyLead(t *testing.T) {
	r := NewResolver(fakeProfiles{5: profile(5, model.RoleLead, "")}, nil)
	scope, err := r.Resolve(context.Background(), 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	f := DepartmentScope(scope, DomainGeneral)
	if f.Unscoped {
		t.Fatalf("empty lead must never be unscoped")
	}
	if f.Departments == nil || len(f.Departments) != 0 || !f.MatchesNothing() {
		t.Fatalf("expected empty allow-list, got %+v", f)
	}
	if f.Allows("IT") {
		t.Fatalf("empty allow-list must reject every department")
	}
}

func TestCanAccessAdminSection(t *testing.T) {
	lead := &AdminScope{Role: model.RoleLead, ManagedDepartments: []string{"IT"}}
	admin := &AdminScope{Role: model.RoleSuperAdmin, IsAdminLike: true}
	cases := []struct {
		scope   *AdminScope
		section string
		want    bool
	}{
		{admin, SectionSettings, true},
		{lead, SectionHelpDesk, true},
		{lead, SectionProfiles, false},
		{lead, "unknown", false},
		{nil, SectionDashboard, false},
	}
	for _, tt := range cases {
		if got := CanAccessAdminSection(tt.scope, tt.section); got != tt.want {
			t.Fatalf("CanAccessAdminSection(%v, %q)=%v, want %v", tt.scope, tt.section, got, tt.want)
		}
	}
}

func TestCanonicalDepartment(t *testing.T) {
	cases := map[string]string{
		"Finance":            "Accounts",
		" accounts & finance": "Accounts",
		"HR":                 "Admin & HR",
		"Human Resources":    "Admin & HR",
		"IT":                 "IT",
	}
	for in, want := range cases {
		if got := CanonicalDepartment(in); got != want {
			t.Fatalf("CanonicalDepartment(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestQueryValuesIncludesAliases(t *testing.T) {
	f := DepartmentFilter{Departments: []string{"Accounts"}}
	values := f.QueryValues()
	want := map[string]bool{"finance": true, "accounts & finance": true, "accounts": true}
	for _, v := range values {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Fatalf("missing aliases %v in %v", want, values)
	}
}

func TestLeadCovers(t *testing.T) {
	lead := profile(7, model.RoleLead, "Sales", "finance", "IT")
	for _, dept := range []string{"Accounts", "Accounts & Finance", "it"} {
		if !LeadCovers(lead, dept) {
			t.Errorf("lead should cover %q", dept)
		}
	}
	if LeadCovers(lead, "Sales") {
		t.Errorf("explicit lead departments replace the home department")
	}

	fallback := profile(8, model.RoleLead, "Sales")
	if !LeadCovers(fallback, "sales") {
		t.Errorf("lead without a list should cover the home department")
	}
	if LeadCovers(profile(9, model.RoleEmployee, "Sales"), "Sales") {
		t.Errorf("employees cover nothing")
	}
}

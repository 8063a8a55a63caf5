// Package access resolves what part of the organisation a caller may see and
// manage. Scopes are computed from the current profile on every call.
package access

import (
	"context"
	"sort"
	"strings"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
)

type Domain string

const (
	DomainGeneral Domain = "general"
	DomainFinance Domain = "finance"
	DomainHR      Domain = "hr"
)

// Admin sections a lead may open. Admin-like callers may open any section.
const (
	SectionDashboard      = "dashboard"
	SectionLeave          = "leave"
	SectionAttendance     = "attendance"
	SectionHelpDesk       = "help_desk"
	SectionCorrespondence = "correspondence"
	SectionReports        = "reports"
	SectionProfiles       = "profiles"
	SectionSettings       = "settings"
)

var leadSections = map[string]bool{
	SectionDashboard:      true,
	SectionLeave:          true,
	SectionAttendance:     true,
	SectionHelpDesk:       true,
	SectionCorrespondence: true,
	SectionReports:        true,
}

// AdminScope is the administrative reach of one caller.
type AdminScope struct {
	UserID              uint       `json:"user_id"`
	Role                model.Role `json:"role"`
	ManagedDepartments  []string   `json:"managed_departments"`
	ManagedOffices      []string   `json:"managed_offices"`
	IsAdminLike         bool       `json:"is_admin_like"`
	IsFinanceGlobalLead bool       `json:"is_finance_global_lead"`
	IsHRGlobalLead      bool       `json:"is_hr_global_lead"`
}

// DepartmentFilter is an allow-list for department-scoped queries.
// Unscoped means no filter. A scoped filter with no departments matches nothing.
type DepartmentFilter struct {
	Unscoped    bool
	Departments []string
}

func Unscoped() DepartmentFilter {
	return DepartmentFilter{Unscoped: true}
}

// Allows reports whether dept passes the filter.
func (f DepartmentFilter) Allows(dept string) bool {
	if f.Unscoped {
		return true
	}
	c := CanonicalDepartment(dept)
	for _, d := range f.Departments {
		if strings.EqualFold(d, c) {
			return true
		}
	}
	return false
}

// MatchesNothing reports whether any query filtered by f must return no rows.
func (f DepartmentFilter) MatchesNothing() bool {
	return !f.Unscoped && len(f.Departments) == 0
}

// QueryValues returns the lower-cased allow-list expanded with every known
// alias, for use against LOWER(column) so rows stored under a non-canonical
// spelling still match.
func (f DepartmentFilter) QueryValues() []string {
	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, d := range f.Departments {
		add(strings.ToLower(d))
		for alias, canonical := range departmentAliases {
			if canonical == d {
				add(alias)
			}
		}
	}
	return out
}

type ProfileReader interface {
	GetByID(ctx context.Context, id uint) (*model.Profile, error)
}

type OfficeReader interface {
	OfficesForDepartments(ctx context.Context, departments []string) ([]string, error)
}

type Resolver struct {
	profiles ProfileReader
	offices  OfficeReader
}

func NewResolver(profiles ProfileReader, offices OfficeReader) *Resolver {
	return &Resolver{profiles: profiles, offices: offices}
}

// Resolve returns the admin scope for userID, or nil when the caller's role
// has no administrative surface.
func (r *Resolver) Resolve(ctx context.Context, userID uint) (*AdminScope, error) {
	p, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.FromProfile(ctx, p)
}

func (r *Resolver) FromProfile(ctx context.Context, p *model.Profile) (*AdminScope, error) {
	if p.EmploymentStatus == model.EmploymentSeparated {
		return nil, nil
	}
	switch p.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		return &AdminScope{
			UserID:             p.ID,
			Role:               p.Role,
			ManagedDepartments: []string{},
			ManagedOffices:     []string{},
			IsAdminLike:        true,
		}, nil
	case model.RoleLead:
	default:
		return nil, nil
	}

	managed := LeadDepartments(p)
	scope := &AdminScope{
		UserID:             p.ID,
		Role:               p.Role,
		ManagedDepartments: managed,
		ManagedOffices:     []string{},
	}
	for _, d := range managed {
		switch d {
		case DeptAccounts:
			scope.IsFinanceGlobalLead = true
		case DeptAdminHR:
			scope.IsHRGlobalLead = true
		}
	}

	offices := map[string]bool{}
	if p.OfficeLocation != "" {
		offices[p.OfficeLocation] = true
	}
	if r.offices != nil && len(managed) > 0 {
		found, err := r.offices.OfficesForDepartments(ctx, managed)
		if err != nil {
			return nil, apperr.Internal("failed to resolve offices", err)
		}
		for _, o := range found {
			if o != "" {
				offices[o] = true
			}
		}
	}
	for o := range offices {
		scope.ManagedOffices = append(scope.ManagedOffices, o)
	}
	sort.Strings(scope.ManagedOffices)
	return scope, nil
}

// DepartmentScope returns the department filter scope grants in domain.
func DepartmentScope(scope *AdminScope, domain Domain) DepartmentFilter {
	if scope == nil {
		return DepartmentFilter{Departments: []string{}}
	}
	if scope.IsAdminLike {
		return Unscoped()
	}
	if scope.Role != model.RoleLead {
		return DepartmentFilter{Departments: []string{}}
	}
	switch {
	case domain == DomainFinance && scope.IsFinanceGlobalLead:
		return Unscoped()
	case domain == DomainHR && scope.IsHRGlobalLead:
		return Unscoped()
	}
	return DepartmentFilter{Departments: append([]string{}, scope.ManagedDepartments...)}
}

func CanAccessAdminSection(scope *AdminScope, section string) bool {
	if scope == nil {
		return false
	}
	if scope.IsAdminLike {
		return true
	}
	return scope.Role == model.RoleLead && leadSections[section]
}

// IsHR reports whether the scope may act as HR on leave requests.
func IsHR(scope *AdminScope) bool {
	return scope != nil && (scope.IsAdminLike || scope.IsHRGlobalLead)
}

// CoversDepartment reports whether scope manages dept in the general domain.
func CoversDepartment(scope *AdminScope, dept string) bool {
	return DepartmentScope(scope, DomainGeneral).Allows(dept)
}

// LeadDepartments returns the canonical departments a lead profile manages.
// It needs no database access, so it can be used while scanning profiles.
func LeadDepartments(p *model.Profile) []string {
	if p.Role != model.RoleLead {
		return nil
	}
	managed := canonicalList(p.LeadDepartments)
	if len(managed) == 0 {
		managed = canonicalList([]string{p.Department})
	}
	return managed
}

// LeadCovers reports whether the lead profile p manages dept.
func LeadCovers(p *model.Profile, dept string) bool {
	c := CanonicalDepartment(dept)
	for _, d := range LeadDepartments(p) {
		if strings.EqualFold(d, c) {
			return true
		}
	}
	return false
}

package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"
	"erp-backend/internal/testutil"

	"gorm.io/datatypes"
)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *repository.Store
	resolver *access.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore(testutil.NewDB(t))
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    store,
		resolver: access.NewResolver(store.Profiles, store.Departments),
	}
}

func (f *fixture) profile(name string, role model.Role, dept string, leads ...string) *model.Profile {
	f.t.Helper()
	p := &model.Profile{
		FullName:         name,
		Email:            strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:             role,
		Department:       dept,
		EmploymentStatus: model.EmploymentActive,
		IsAdmin:          role.IsAdminLike(),
		IsDepartmentLead: role == model.RoleLead,
	}
	if len(leads) > 0 {
		p.LeadDepartments = datatypes.JSONSlice[string](leads)
	}
	if err := f.store.Profiles.Create(f.ctx, p); err != nil {
		f.t.Fatalf("create profile %s: %v", name, err)
	}
	return p
}

func (f *fixture) leaveType(code string, days int) *model.LeaveType {
	f.t.Helper()
	lt := &model.LeaveType{Name: strings.ToUpper(code[:1]) + code[1:], Code: code, DefaultDays: days, IsPaid: true}
	if err := f.store.Leaves.UpsertLeaveType(f.ctx, lt); err != nil {
		f.t.Fatalf("create leave type: %v", err)
	}
	return lt
}

func (f *fixture) balance(userID, typeID uint, year, total, used int) {
	f.t.Helper()
	b := &model.LeaveBalance{UserID: userID, LeaveTypeID: typeID, Year: year, TotalDays: total, UsedDays: used}
	if err := f.store.DB().Omit("LeaveType").Create(b).Error; err != nil {
		f.t.Fatalf("create balance: %v", err)
	}
}

func (f *fixture) usedDays(userID, typeID uint, year int) int {
	f.t.Helper()
	b, err := f.store.Leaves.GetBalance(f.ctx, userID, typeID, year)
	if err != nil {
		f.t.Fatalf("get balance: %v", err)
	}
	return b.UsedDays
}

func (f *fixture) outboxCount() int64 {
	f.t.Helper()
	n, err := f.store.Outbox.CountByStatus(f.ctx, model.OutboxPending)
	if err != nil {
		f.t.Fatalf("count outbox: %v", err)
	}
	return n
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

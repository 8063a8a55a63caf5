package model

import "testing"

func TestHasRoleOrHigher(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleLead, RoleAdmin, false},
		{RoleEmployee, RoleLead, false},
		{RoleLead, RoleEmployee, true},
		{RoleVisitor, RoleVisitor, true},
		{Role("owner"), RoleVisitor, false},
		{RoleAdmin, Role("owner"), false},
	}
	for _, tt := range cases {
		if got := HasRoleOrHigher(tt.role, tt.min); got != tt.want {
			t.Fatalf("HasRoleOrHigher(%q, %q)=%v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	order := []Role{RoleVisitor, RoleEmployee, RoleLead, RoleAdmin, RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("expected %s to rank below %s", order[i-1], order[i])
		}
	}
	if Role("unknown").Rank() >= RoleVisitor.Rank() {
		t.Fatalf("unknown role must rank below visitor")
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Super_Admin ")
	if !ok || r != RoleSuperAdmin {
		t.Fatalf("ParseRole returned %q, %v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("expected root to be rejected")
	}
}

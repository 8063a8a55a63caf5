package access

import "strings"

const (
	DeptAccounts = "Accounts"
	DeptAdminHR  = "Admin & HR"
)

// departmentAliases maps known alternate spellings (lower-cased) to the
// canonical department name.
var departmentAliases = map[string]string{
	"finance":            DeptAccounts,
	"accounts & finance": DeptAccounts,
	"accounts":           DeptAccounts,
	"hr":                 DeptAdminHR,
	"human resources":    DeptAdminHR,
	"admin & hr":         DeptAdminHR,
	"admin and hr":       DeptAdminHR,
}

// CanonicalDepartment returns the canonical name for a department. Names
// without an alias are returned trimmed but otherwise unchanged.
func CanonicalDepartment(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := departmentAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

func canonicalList(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		c := CanonicalDepartment(n)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Package access maps the externally resolved role signal to permitted workflow operations.
package access

import (
	"fmt"
	"strings"

	"cmcs-claims/internal/core/domain"
)

var knownRoles = map[string]domain.Role{
	strings.ToLower(string(domain.RoleLecturer)): domain.RoleLecturer,
	strings.ToLower(string(domain.RoleManager1)): domain.RoleManager1,
	strings.ToLower(string(domain.RoleManager2)): domain.RoleManager2,
	strings.ToLower(string(domain.RoleHR)):       domain.RoleHR,
}

// CanLecturerAct reports whether role may submit, update or delete claims
func CanLecturerAct(role domain.Role) bool {
	return role == domain.RoleLecturer
}

// CanManagerAct reports whether role may review claims
func CanManagerAct(role domain.Role) bool {
	return role == domain.RoleManager1 || role == domain.RoleManager2
}

// CanReportAct reports whether role may list approved claims for payroll
func CanReportAct(role domain.Role) bool {
	return role == domain.RoleHR
}

// RequireRole fails when no role has been resolved for the caller
func RequireRole(role domain.Role) error {
	if strings.TrimSpace(string(role)) == "" {
		return domain.ErrNoRoleSelected
	}
	return nil
}

// ParseRole normalises a raw role string. Empty input yields an empty role
// so that RequireRole can report it.
func ParseRole(raw string) (domain.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	role, ok := knownRoles[strings.ToLower(raw)]
	if !ok {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, raw)
	}
	return role, nil
}

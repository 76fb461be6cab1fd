// Package access resolves which alumni records a caller may see or change.
//
// Every role maps to exactly one scope. Admins are unrestricted; deans and
// alumni are confined to the department on their account.
package access

import (
	"strings"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

// Principal identifies the authenticated caller.
type Principal struct {
	UserID     int64
	Username   string
	Role       models.UserRole
	Department string
}

// FromClaims builds a Principal from validated token claims.
func FromClaims(claims *models.JWTClaims) Principal {
	if claims == nil {
		return Principal{}
	}
	return Principal{
		UserID:     claims.UserID,
		Username:   claims.Username,
		Role:       claims.Role,
		Department: claims.Department,
	}
}

// Scope is the set of departments a caller may act on.
type Scope struct {
	department string
	restricted bool
}

// Unrestricted returns a scope covering every department.
func Unrestricted() Scope {
	return Scope{}
}

// Department returns a scope limited to one department.
func Department(name string) Scope {
	return Scope{department: name, restricted: true}
}

// Resolve maps a role and account department to a scope. Scoped roles
// without a department and unknown roles are rejected.
func Resolve(role models.UserRole, department string) (Scope, error) {
	switch role {
	case models.RoleAdmin:
		return Unrestricted(), nil
	case models.RoleDean, models.RoleAlumni:
		department = strings.TrimSpace(department)
		if department == "" {
			return Scope{}, appErrors.Clone(appErrors.ErrForbidden, "account has no department assigned")
		}
		return Department(department), nil
	default:
		return Scope{}, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
}

// Scope resolves the principal's scope.
func (p Principal) Scope() (Scope, error) {
	return Resolve(p.Role, p.Department)
}

// Restricted reports whether the scope is limited to one department.
func (s Scope) Restricted() bool { return s.restricted }

// DepartmentName returns the scoped department, or "" when unrestricted.
func (s Scope) DepartmentName() string { return s.department }

// Allows reports whether records of department fall inside the scope.
func (s Scope) Allows(department string) bool {
	return !s.restricted || s.department == department
}

// Authorize returns a permission error when department is outside the scope.
func (s Scope) Authorize(department string) error {
	if s.Allows(department) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrDepartmentScope, "")
}

// AuthorizeDelete permits deletion for administrators only.
func AuthorizeDelete(role models.UserRole) error {
	if role == models.RoleAdmin {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "Insufficient privileges")
}

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

func TestResolveEveryRole(t *testing.T) {
	admin, err := Resolve(models.RoleAdmin, "")
	require.NoError(t, err)
	assert.False(t, admin.Restricted())
	assert.True(t, admin.Allows("Physics"))

	for _, role := range []models.UserRole{models.RoleDean, models.RoleAlumni} {
		scope, err := Resolve(role, "Computer Science")
		require.NoError(t, err)
		assert.True(t, scope.Restricted())
		assert.Equal(t, "Computer Science", scope.DepartmentName())
		assert.True(t, scope.Allows("Computer Science"))
		assert.False(t, scope.Allows("Physics"))
	}
}

func TestResolveRejectsMissingDepartmentAndUnknownRole(t *testing.T) {
	_, err := Resolve(models.RoleDean, "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = Resolve(models.UserRole("registrar"), "Physics")
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthorizeDepartment(t *testing.T) {
	scope := Department("Computer Science")
	assert.NoError(t, scope.Authorize("Computer Science"))

	err := scope.Authorize("Physics")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Access denied to this department", appErr.Message)
	assert.Equal(t, 403, appErr.Status)
}

func TestAuthorizeDeleteAdminOnly(t *testing.T) {
	assert.NoError(t, AuthorizeDelete(models.RoleAdmin))
	for _, role := range []models.UserRole{models.RoleDean, models.RoleAlumni, ""} {
		err := AuthorizeDelete(role)
		require.Error(t, err)
		assert.Equal(t, "Insufficient privileges", appErrors.FromError(err).Message)
	}
}

func TestPrincipalFromClaims(t *testing.T) {
	p := FromClaims(&models.JWTClaims{UserID: 9, Username: "dean.cs", Role: models.RoleDean, Department: "Computer Science"})
	scope, err := p.Scope()
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", scope.DepartmentName())

	assert.Equal(t, Principal{}, FromClaims(nil))
}

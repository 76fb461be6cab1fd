package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

func TestFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "full_name", "role", "department", "is_active", "last_login", "created_at", "updated_at"}).
		AddRow(int64(3), "dean.cs", "dean@example.edu", "hash", "Dean CS", string(models.RoleDean), "Computer Science", true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE username = $1 LIMIT 1")).
		WithArgs("dean.cs").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "dean.cs")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDean, user.Role)
	assert.Equal(t, "Computer Science", user.DepartmentName())
	assert.Nil(t, user.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)")).
		WithArgs("ada", "ada@example.edu").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "ada", "ada@example.edu")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users (.+) RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	user := &models.User{Username: "admin", Email: "admin@example.edu", PasswordHash: "hash", FullName: "Admin", Role: models.RoleAdmin, IsActive: true}
	id, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, int64(11), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1")).
		WithArgs(int64(3), ts, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 3, ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

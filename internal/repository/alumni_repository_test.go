package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func alumniRows() *sqlmock.Rows {
	return sqlmock.NewRows(alumniColumns)
}

func addAlumniRow(rows *sqlmock.Rows, id int64, name, dept string, year int, inField bool, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, name, name+"@example.edu", nil, dept, year, "Bachelor",
		"Engineer", "Acme", inField, 75000.0, nil, status, nil, nil, nil, int64(1), now, now)
}

func TestAlumniListScopedToDepartment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlumniRepository(db)

	rows := addAlumniRow(alumniRows(), 1, "Ada", "Computer Science", 2022, true, "employed")
	mock.ExpectQuery(regexp.QuoteMeta("FROM alumni WHERE department = $1 ORDER BY updated_at DESC, id DESC LIMIT 50 OFFSET 0")).
		WithArgs("Computer Science").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM alumni WHERE department = $1")).
		WithArgs("Computer Science").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), access.Department("Computer Science"), models.AlumniFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Computer Science", items[0].Department)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlumniRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM alumni WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(alumniRows())

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlumniRepository(db)

	mock.ExpectQuery("INSERT INTO alumni (.+) RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	record := &models.Alumni{Name: "Ada", Email: "ada@example.edu", Department: "Computer Science", GraduationYear: 2022, DegreeType: "Bachelor", IsInField: true, EmploymentStatus: models.EmploymentEmployed}
	id, err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.Equal(t, int64(17), record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniUpdateReportsAffectedRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlumniRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE alumni SET company = $1, is_in_field = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("Globex", false, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Update(context.Background(), 5, map[string]interface{}{"company": "Globex", "is_in_field": false})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Update(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAlumniRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM alumni WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), 99)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

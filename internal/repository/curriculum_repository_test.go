package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

func TestCurriculumListScopedWithStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(curriculumColumns).
		AddRow(int64(1), "Cloud module", "Computer Science", "high", "pending", "", "", "", false, "Dean CS", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM curriculum_suggestions WHERE department = $1 AND status = $2 ORDER BY")).
		WithArgs("Computer Science", "pending").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), access.Department("Computer Science"), models.CurriculumFilter{Status: "pending", Department: "all"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.SuggestionPending, items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumCreateAndUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	mock.ExpectQuery("INSERT INTO curriculum_suggestions (.+) RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE curriculum_suggestions SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("approved", sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Create(context.Background(), &models.CurriculumSuggestion{Title: "Cloud module", Department: "Computer Science", Priority: "high", Status: models.SuggestionPending})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	affected, err := repo.UpdateStatus(context.Background(), id, models.SuggestionApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

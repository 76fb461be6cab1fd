package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

type memoryCurriculumRepo struct {
	items map[int64]*models.CurriculumSuggestion
}

func (m *memoryCurriculumRepo) List(ctx context.Context, scope access.Scope, filter models.CurriculumFilter) ([]models.CurriculumSuggestion, error) {
	var out []models.CurriculumSuggestion
	for _, s := range m.items {
		if scope.Allows(s.Department) && (filter.Status == "" || string(s.Status) == filter.Status) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryCurriculumRepo) FindByID(ctx context.Context, id int64) (*models.CurriculumSuggestion, error) {
	if s, ok := m.items[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryCurriculumRepo) Create(ctx context.Context, s *models.CurriculumSuggestion) (int64, error) {
	s.ID = int64(len(m.items) + 1)
	m.items[s.ID] = s
	return s.ID, nil
}

func (m *memoryCurriculumRepo) UpdateStatus(ctx context.Context, id int64, status models.SuggestionStatus) (int64, error) {
	s, ok := m.items[id]
	if !ok {
		return 0, nil
	}
	s.Status = status
	return 1, nil
}

func TestCurriculumCreateDefaultsAndScope(t *testing.T) {
	repo := &memoryCurriculumRepo{items: map[int64]*models.CurriculumSuggestion{}}
	svc := NewCurriculumService(repo, nil, zap.NewNop())
	dean := access.Principal{UserID: 2, Username: "dean.cs", Role: models.RoleDean, Department: "Computer Science"}

	id, err := svc.Create(context.Background(), dean, CreateSuggestionRequest{Title: "Cloud computing module", Department: "Computer Science"})
	require.NoError(t, err)
	created := repo.items[id]
	assert.Equal(t, models.SuggestionPending, created.Status)
	assert.Equal(t, "medium", created.Priority)
	assert.Equal(t, "dean.cs", created.SuggestedBy)

	_, err = svc.Create(context.Background(), dean, CreateSuggestionRequest{Title: "Optics lab", Department: "Physics"})
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), dean, CreateSuggestionRequest{Title: "X", Department: "Computer Science", Priority: "urgent"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCurriculumUpdateStatus(t *testing.T) {
	repo := &memoryCurriculumRepo{items: map[int64]*models.CurriculumSuggestion{
		1: {ID: 1, Department: "Physics", Status: models.SuggestionPending},
	}}
	svc := NewCurriculumService(repo, nil, zap.NewNop())
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, deanCS, 1, UpdateSuggestionStatusRequest{Status: models.SuggestionApproved})
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	err = svc.UpdateStatus(ctx, admin, 1, UpdateSuggestionStatusRequest{Status: "shelved"})
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	err = svc.UpdateStatus(ctx, admin, 9, UpdateSuggestionStatusRequest{Status: models.SuggestionApproved})
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	require.NoError(t, svc.UpdateStatus(ctx, admin, 1, UpdateSuggestionStatusRequest{Status: models.SuggestionImplemented}))
	assert.Equal(t, models.SuggestionImplemented, repo.items[1].Status)

	items, err := svc.List(ctx, deanCS, models.CurriculumFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

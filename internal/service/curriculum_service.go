package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

type curriculumRepository interface {
	List(ctx context.Context, scope access.Scope, filter models.CurriculumFilter) ([]models.CurriculumSuggestion, error)
	FindByID(ctx context.Context, id int64) (*models.CurriculumSuggestion, error)
	Create(ctx context.Context, s *models.CurriculumSuggestion) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.SuggestionStatus) (int64, error)
}

// CreateSuggestionRequest holds payload for proposing a curriculum change.
type CreateSuggestionRequest struct {
	Title          string        `json:"title" validate:"required"`
	Department     string        `json:"department" validate:"required"`
	Priority       string        `json:"priority" validate:"omitempty,oneof=high medium low"`
	Description    string        `json:"description"`
	Rationale      string        `json:"rationale"`
	Implementation string        `json:"implementation"`
	AIGenerated    models.Truthy `json:"ai_generated"`
	SuggestedBy    string        `json:"suggested_by"`
}

// UpdateSuggestionStatusRequest moves a suggestion through review.
type UpdateSuggestionStatusRequest struct {
	Status models.SuggestionStatus `json:"status" validate:"required,oneof=pending approved rejected implemented"`
}

// CurriculumService handles curriculum suggestion use-cases.
type CurriculumService struct {
	repo      curriculumRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService constructs the curriculum service.
func NewCurriculumService(repo curriculumRepository, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, validator: validate, logger: logger}
}

// List returns suggestions inside the caller's scope.
func (s *CurriculumService) List(ctx context.Context, p access.Principal, filter models.CurriculumFilter) ([]models.CurriculumSuggestion, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		s.logger.Error("list curriculum suggestions failed", zap.Error(err))
		return nil, storeFailure(err, "failed to list curriculum suggestions")
	}
	return items, nil
}

// Create stores a new pending suggestion for a department inside scope.
func (s *CurriculumService) Create(ctx context.Context, p access.Principal, req CreateSuggestionRequest) (int64, error) {
	scope, err := p.Scope()
	if err != nil {
		return 0, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Department = strings.TrimSpace(req.Department)
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid curriculum payload")
	}
	if err := scope.Authorize(req.Department); err != nil {
		return 0, err
	}

	suggestion := &models.CurriculumSuggestion{
		Title:          req.Title,
		Department:     req.Department,
		Priority:       req.Priority,
		Status:         models.SuggestionPending,
		Description:    req.Description,
		Rationale:      req.Rationale,
		Implementation: req.Implementation,
		AIGenerated:    bool(req.AIGenerated),
		SuggestedBy:    req.SuggestedBy,
	}
	if suggestion.Priority == "" {
		suggestion.Priority = "medium"
	}
	if suggestion.SuggestedBy == "" {
		suggestion.SuggestedBy = p.Username
	}
	if p.UserID > 0 {
		createdBy := p.UserID
		suggestion.CreatedBy = &createdBy
	}

	id, err := s.repo.Create(ctx, suggestion)
	if err != nil {
		s.logger.Error("create curriculum suggestion failed", zap.Error(err))
		return 0, storeFailure(err, "failed to create curriculum suggestion")
	}
	return id, nil
}

// UpdateStatus changes the review status of a suggestion inside scope.
func (s *CurriculumService) UpdateStatus(ctx context.Context, p access.Principal, id int64, req UpdateSuggestionStatusRequest) error {
	scope, err := p.Scope()
	if err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid status payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Suggestion not found")
		}
		return storeFailure(err, "failed to load curriculum suggestion")
	}
	if err := scope.Authorize(existing.Department); err != nil {
		return err
	}

	affected, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return storeFailure(err, "failed to update curriculum suggestion")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Suggestion not found")
	}
	return nil
}

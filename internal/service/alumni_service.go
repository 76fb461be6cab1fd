package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

// analyticsCachePattern matches every cached analytics payload.
const analyticsCachePattern = "analytics:*"

type alumniRepository interface {
	List(ctx context.Context, scope access.Scope, filter models.AlumniFilter) ([]models.Alumni, int, error)
	FindByID(ctx context.Context, id int64) (*models.Alumni, error)
	Create(ctx context.Context, a *models.Alumni) (int64, error)
	Update(ctx context.Context, id int64, changes map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// AlumniConfig holds pagination and export limits.
type AlumniConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	ExportMaxRows   int
}

// CreateAlumniRequest holds payload for creating alumni records.
type CreateAlumniRequest struct {
	Name             string                  `json:"name" validate:"required"`
	Email            string                  `json:"email" validate:"required"`
	StudentID        *string                 `json:"student_id"`
	Department       string                  `json:"department" validate:"required"`
	GraduationYear   int                     `json:"graduation_year" validate:"required"`
	DegreeType       string                  `json:"degree_type"`
	CurrentPosition  *string                 `json:"current_position"`
	Company          *string                 `json:"company"`
	IsInField        *models.Truthy          `json:"is_in_field"`
	Salary           *float64                `json:"salary"`
	Location         *string                 `json:"location"`
	EmploymentStatus models.EmploymentStatus `json:"employment_status" validate:"omitempty,oneof=employed unemployed self_employed further_education"`
	LinkedinURL      *string                 `json:"linkedin_url"`
	Phone            *string                 `json:"phone"`
	Notes            *string                 `json:"notes"`
}

// UpdateAlumniRequest holds a partial update; nil fields are left untouched.
type UpdateAlumniRequest struct {
	Name             *string                  `json:"name"`
	Email            *string                  `json:"email"`
	StudentID        *string                  `json:"student_id"`
	Department       *string                  `json:"department"`
	GraduationYear   *int                     `json:"graduation_year"`
	DegreeType       *string                  `json:"degree_type"`
	CurrentPosition  *string                  `json:"current_position"`
	Company          *string                  `json:"company"`
	IsInField        *models.Truthy           `json:"is_in_field"`
	Salary           *float64                 `json:"salary"`
	Location         *string                  `json:"location"`
	EmploymentStatus *models.EmploymentStatus `json:"employment_status"`
	LinkedinURL      *string                  `json:"linkedin_url"`
	Phone            *string                  `json:"phone"`
	Notes            *string                  `json:"notes"`
}

// changes maps the present fields to their columns. Required columns may not
// be blanked.
func (r UpdateAlumniRequest) changes() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	required := func(col string, v *string) error {
		if v == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return appErrors.Clone(appErrors.ErrValidation, "Field '"+col+"' is required")
		}
		out[col] = trimmed
		return nil
	}
	if err := required("name", r.Name); err != nil {
		return nil, err
	}
	if err := required("email", r.Email); err != nil {
		return nil, err
	}
	if err := required("department", r.Department); err != nil {
		return nil, err
	}
	if r.GraduationYear != nil {
		if *r.GraduationYear <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Field 'graduation_year' is invalid")
		}
		out["graduation_year"] = *r.GraduationYear
	}
	if r.EmploymentStatus != nil {
		if !r.EmploymentStatus.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Field 'employment_status' must be one of: employed, unemployed, self_employed, further_education")
		}
		out["employment_status"] = *r.EmploymentStatus
	}
	if r.IsInField != nil {
		out["is_in_field"] = bool(*r.IsInField)
	}
	optional := map[string]*string{
		"student_id":       r.StudentID,
		"degree_type":      r.DegreeType,
		"current_position": r.CurrentPosition,
		"company":          r.Company,
		"location":         r.Location,
		"linkedin_url":     r.LinkedinURL,
		"phone":            r.Phone,
		"notes":            r.Notes,
	}
	for col, v := range optional {
		if v != nil {
			out[col] = *v
		}
	}
	if r.Salary != nil {
		out["salary"] = *r.Salary
	}
	return out, nil
}

// AlumniService handles alumni record use-cases.
type AlumniService struct {
	repo      alumniRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AlumniConfig
}

// NewAlumniService constructs the alumni service.
func NewAlumniService(repo alumniRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AlumniConfig) *AlumniService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 200
	}
	if cfg.ExportMaxRows <= 0 {
		cfg.ExportMaxRows = 5000
	}
	return &AlumniService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List returns the caller-visible records matching filter with pagination.
func (s *AlumniService) List(ctx context.Context, p access.Principal, filter models.AlumniFilter) ([]models.Alumni, *models.Pagination, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, nil, err
	}
	filter = filter.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	start := time.Now()
	items, total, err := s.repo.List(ctx, scope, filter)
	s.metrics.ObserveDBQuery("alumni_list", time.Since(start))
	if err != nil {
		s.logger.Error("list alumni failed", zap.Error(err))
		return nil, nil, storeFailure(err, "failed to list alumni")
	}
	pagination := models.NewPagination(filter.Page, filter.Limit, total)
	return items, &pagination, nil
}

// Get returns one record when it falls inside the caller's scope.
func (s *AlumniService) Get(ctx context.Context, p access.Principal, id int64) (*models.Alumni, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Authorize(record.Department); err != nil {
		return nil, err
	}
	return record, nil
}

// Create inserts a record owned by the caller and returns its id.
func (s *AlumniService) Create(ctx context.Context, p access.Principal, req CreateAlumniRequest) (int64, error) {
	scope, err := p.Scope()
	if err != nil {
		return 0, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Department = strings.TrimSpace(req.Department)
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid alumni payload")
	}
	if err := scope.Authorize(req.Department); err != nil {
		return 0, err
	}

	record := &models.Alumni{
		Name:             req.Name,
		Email:            req.Email,
		StudentID:        req.StudentID,
		Department:       req.Department,
		GraduationYear:   req.GraduationYear,
		DegreeType:       strings.TrimSpace(req.DegreeType),
		CurrentPosition:  req.CurrentPosition,
		Company:          req.Company,
		IsInField:        true,
		Salary:           req.Salary,
		Location:         req.Location,
		EmploymentStatus: req.EmploymentStatus,
		LinkedinURL:      req.LinkedinURL,
		Phone:            req.Phone,
		Notes:            req.Notes,
	}
	if record.DegreeType == "" {
		record.DegreeType = models.DefaultDegreeType
	}
	if req.IsInField != nil {
		record.IsInField = bool(*req.IsInField)
	}
	if record.EmploymentStatus == "" {
		record.EmploymentStatus = models.DefaultEmploymentStatus
	}
	if p.UserID > 0 {
		createdBy := p.UserID
		record.CreatedBy = &createdBy
	}

	id, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error("create alumni failed", zap.Error(err))
		return 0, storeFailure(err, "failed to create alumni")
	}
	s.afterMutation(ctx, "create", id)
	return id, nil
}

// Update applies a partial update to a record inside the caller's scope.
func (s *AlumniService) Update(ctx context.Context, p access.Principal, id int64, req UpdateAlumniRequest) error {
	scope, err := p.Scope()
	if err != nil {
		return err
	}
	changes, err := req.changes()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return appErrors.Clone(appErrors.ErrBadRequest, "No valid fields to update")
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := scope.Authorize(existing.Department); err != nil {
		return err
	}
	if dept, ok := changes["department"].(string); ok {
		if err := scope.Authorize(dept); err != nil {
			return err
		}
	}

	affected, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		s.logger.Error("update alumni failed", zap.Int64("id", id), zap.Error(err))
		return storeFailure(err, "failed to update alumni")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Alumni not found")
	}
	s.afterMutation(ctx, "update", id)
	return nil
}

// Delete removes a record. Only administrators may delete.
func (s *AlumniService) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.AuthorizeDelete(p.Role); err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete alumni failed", zap.Int64("id", id), zap.Error(err))
		return storeFailure(err, "failed to delete alumni")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Alumni not found")
	}
	s.afterMutation(ctx, "delete", id)
	return nil
}

func (s *AlumniService) find(ctx context.Context, id int64) (*models.Alumni, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Alumni not found")
		}
		s.logger.Error("load alumni failed", zap.Int64("id", id), zap.Error(err))
		return nil, storeFailure(err, "failed to load alumni")
	}
	return record, nil
}

func (s *AlumniService) afterMutation(ctx context.Context, op string, id int64) {
	s.metrics.RecordAlumniMutation(op)
	if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("operation", op), zap.Error(err))
	}
	s.logger.Info("alumni record changed", zap.String("operation", op), zap.Int64("id", id))
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

var curriculumColumns = []string{
	"id", "title", "department", "priority", "status", "description", "rationale",
	"implementation", "ai_generated", "suggested_by", "created_by", "created_at", "updated_at",
}

// CurriculumRepository persists curriculum suggestions.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new instance of CurriculumRepository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// List returns suggestions visible to scope, high priority and newest first.
func (r *CurriculumRepository) List(ctx context.Context, scope access.Scope, filter models.CurriculumFilter) ([]models.CurriculumSuggestion, error) {
	b := psql.Select(curriculumColumns...).From("curriculum_suggestions")
	if scope.Restricted() {
		b = b.Where(squirrel.Eq{"department": scope.DepartmentName()})
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" && !strings.EqualFold(dept, "all") {
		b = b.Where(squirrel.Eq{"department": dept})
	}
	if status := strings.TrimSpace(filter.Status); status != "" && !strings.EqualFold(status, "all") {
		b = b.Where(squirrel.Eq{"status": status})
	}
	query, args, err := b.OrderBy("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END", "created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build curriculum list query: %w", err)
	}

	suggestions := make([]models.CurriculumSuggestion, 0)
	if err := r.db.SelectContext(ctx, &suggestions, query, args...); err != nil {
		return nil, fmt.Errorf("list curriculum suggestions: %w", err)
	}
	return suggestions, nil
}

// FindByID returns a suggestion by identifier. sql.ErrNoRows is returned as-is.
func (r *CurriculumRepository) FindByID(ctx context.Context, id int64) (*models.CurriculumSuggestion, error) {
	query, args, err := psql.Select(curriculumColumns...).From("curriculum_suggestions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find curriculum query: %w", err)
	}
	var s models.CurriculumSuggestion
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find curriculum suggestion: %w", err)
	}
	return &s, nil
}

// Create inserts a suggestion and returns its identifier.
func (r *CurriculumRepository) Create(ctx context.Context, s *models.CurriculumSuggestion) (int64, error) {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query, args, err := psql.Insert("curriculum_suggestions").
		SetMap(map[string]interface{}{
			"title":          s.Title,
			"department":     s.Department,
			"priority":       s.Priority,
			"status":         s.Status,
			"description":    s.Description,
			"rationale":      s.Rationale,
			"implementation": s.Implementation,
			"ai_generated":   s.AIGenerated,
			"suggested_by":   s.SuggestedBy,
			"created_by":     s.CreatedBy,
			"created_at":     s.CreatedAt,
			"updated_at":     s.UpdatedAt,
		}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert curriculum query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create curriculum suggestion: %w", err)
	}
	s.ID = id
	return id, nil
}

// UpdateStatus changes the review status and reports rows affected.
func (r *CurriculumRepository) UpdateStatus(ctx context.Context, id int64, status models.SuggestionStatus) (int64, error) {
	query, args, err := psql.Update("curriculum_suggestions").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build curriculum status query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update curriculum status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("curriculum status rows affected: %w", err)
	}
	return affected, nil
}

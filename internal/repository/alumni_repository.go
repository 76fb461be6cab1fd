package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

// AlumniRepository persists alumni records.
type AlumniRepository struct {
	db *sqlx.DB
}

// NewAlumniRepository creates a new instance of AlumniRepository.
func NewAlumniRepository(db *sqlx.DB) *AlumniRepository {
	return &AlumniRepository{db: db}
}

// List returns one page of records visible to scope and matching filter,
// together with the total count before pagination.
func (r *AlumniRepository) List(ctx context.Context, scope access.Scope, filter models.AlumniFilter) ([]models.Alumni, int, error) {
	q := NewAlumniQuery(scope, filter)
	listSQL, args, err := q.ListSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build alumni list query: %w", err)
	}
	alumni := make([]models.Alumni, 0)
	if err := r.db.SelectContext(ctx, &alumni, listSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list alumni: %w", err)
	}

	countSQL, countArgs, err := q.CountSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build alumni count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count alumni: %w", err)
	}
	return alumni, total, nil
}

// FindByID returns a record by identifier. sql.ErrNoRows is returned as-is.
func (r *AlumniRepository) FindByID(ctx context.Context, id int64) (*models.Alumni, error) {
	query, args, err := psql.Select(alumniColumns...).From(alumniTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find alumni query: %w", err)
	}
	var alumni models.Alumni
	if err := r.db.GetContext(ctx, &alumni, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find alumni by id: %w", err)
	}
	return &alumni, nil
}

// Create inserts a record and returns the generated identifier.
func (r *AlumniRepository) Create(ctx context.Context, a *models.Alumni) (int64, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query, args, err := psql.Insert(alumniTable).
		Columns("name", "email", "student_id", "department", "graduation_year", "degree_type",
			"current_position", "company", "is_in_field", "salary", "location", "employment_status",
			"linkedin_url", "phone", "notes", "created_by", "created_at", "updated_at").
		Values(a.Name, a.Email, a.StudentID, a.Department, a.GraduationYear, a.DegreeType,
			a.CurrentPosition, a.Company, a.IsInField, a.Salary, a.Location, a.EmploymentStatus,
			a.LinkedinURL, a.Phone, a.Notes, a.CreatedBy, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert alumni query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create alumni: %w", err)
	}
	a.ID = id
	return id, nil
}

// Update applies changes (column -> value) to one record and reports the
// number of rows affected.
func (r *AlumniRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}
	query, args, err := psql.Update(alumniTable).
		SetMap(changes).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update alumni query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update alumni: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update alumni rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes one record and reports the number of rows affected.
func (r *AlumniRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := psql.Delete(alumniTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete alumni query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete alumni: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete alumni rows affected: %w", err)
	}
	return affected, nil
}

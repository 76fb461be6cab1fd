package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

// Shared aggregate columns. "Employed" means employment_status = 'employed';
// in-field additionally requires is_in_field.
const (
	employedExpr  = `COUNT(*) FILTER (WHERE employment_status = 'employed')`
	inFieldExpr   = `COUNT(*) FILTER (WHERE is_in_field AND employment_status = 'employed')`
	avgSalaryExpr = `AVG(salary) FILTER (WHERE salary > 0)`
)

// AnalyticsRepository exposes read-optimised aggregation queries over alumni.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DepartmentCounts aggregates totals and average salary for one department.
func (r *AnalyticsRepository) DepartmentCounts(ctx context.Context, department string) (models.DepartmentCounts, error) {
	query := `SELECT COUNT(*) AS total, ` + employedExpr + ` AS employed, ` + inFieldExpr + ` AS in_field, ` + avgSalaryExpr + ` AS avg_salary
        FROM alumni
        WHERE department = $1`
	var counts models.DepartmentCounts
	if err := r.db.GetContext(ctx, &counts, query, department); err != nil {
		return models.DepartmentCounts{}, fmt.Errorf("department counts: %w", err)
	}
	counts.Department = department
	return counts, nil
}

// TopJobTitles returns the most common non-empty positions in a department.
func (r *AnalyticsRepository) TopJobTitles(ctx context.Context, department string, limit int) ([]models.LabelCount, error) {
	const query = `SELECT current_position AS label, COUNT(*) AS count
        FROM alumni
        WHERE department = $1 AND current_position IS NOT NULL AND current_position <> ''
        GROUP BY current_position
        ORDER BY count DESC, label ASC
        LIMIT $2`
	titles := make([]models.LabelCount, 0)
	if err := r.db.SelectContext(ctx, &titles, query, department, limit); err != nil {
		return nil, fmt.Errorf("top job titles: %w", err)
	}
	return titles, nil
}

// TopCompanies returns the employers with the most alumni in a department.
func (r *AnalyticsRepository) TopCompanies(ctx context.Context, department string, limit int) ([]models.LabelCount, error) {
	const query = `SELECT company AS label, COUNT(*) AS count
        FROM alumni
        WHERE department = $1 AND company IS NOT NULL AND company <> ''
        GROUP BY company
        ORDER BY count DESC, label ASC
        LIMIT $2`
	companies := make([]models.LabelCount, 0)
	if err := r.db.SelectContext(ctx, &companies, query, department, limit); err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}
	return companies, nil
}

// GraduationTrends returns per-year counts for the most recent cohorts.
func (r *AnalyticsRepository) GraduationTrends(ctx context.Context, department string, years int) ([]models.YearCounts, error) {
	query := `SELECT graduation_year AS year, COUNT(*) AS total, ` + employedExpr + ` AS employed, ` + inFieldExpr + ` AS in_field
        FROM alumni
        WHERE department = $1
        GROUP BY graduation_year
        ORDER BY graduation_year DESC
        LIMIT $2`
	trends := make([]models.YearCounts, 0)
	if err := r.db.SelectContext(ctx, &trends, query, department, years); err != nil {
		return nil, fmt.Errorf("graduation trends: %w", err)
	}
	return trends, nil
}

// InstitutionCounts aggregates the whole alumni table. Graduates from
// recentSince onwards count as recent.
func (r *AnalyticsRepository) InstitutionCounts(ctx context.Context, recentSince int) (models.InstitutionCounts, error) {
	query := `SELECT COUNT(*) AS total, ` + employedExpr + ` AS employed, ` + inFieldExpr + ` AS in_field,
        COUNT(*) FILTER (WHERE graduation_year >= $1) AS recent_grads
        FROM alumni`
	var counts models.InstitutionCounts
	if err := r.db.GetContext(ctx, &counts, query, recentSince); err != nil {
		return models.InstitutionCounts{}, fmt.Errorf("institution counts: %w", err)
	}
	return counts, nil
}

// DepartmentBreakdown aggregates every department, largest first.
func (r *AnalyticsRepository) DepartmentBreakdown(ctx context.Context) ([]models.DepartmentCounts, error) {
	query := `SELECT department, COUNT(*) AS total, ` + employedExpr + ` AS employed, ` + inFieldExpr + ` AS in_field, ` + avgSalaryExpr + ` AS avg_salary
        FROM alumni
        GROUP BY department
        ORDER BY total DESC, department ASC`
	rows := make([]models.DepartmentCounts, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("department breakdown: %w", err)
	}
	return rows, nil
}

package repository

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const alumniTable = "alumni"

var alumniColumns = []string{
	"id", "name", "email", "student_id", "department", "graduation_year", "degree_type",
	"current_position", "company", "is_in_field", "salary", "location", "employment_status",
	"linkedin_url", "phone", "notes", "created_by", "created_at", "updated_at",
}

// searchColumns are matched case-insensitively by the free-text search.
var searchColumns = []string{"name", "email", "current_position", "company"}

// AlumniQuery is a parameterised alumni listing. The same predicates feed
// both the page query and the count query.
type AlumniQuery struct {
	preds  []squirrel.Sqlizer
	limit  uint64
	offset uint64
}

// NewAlumniQuery combines the caller's scope with the list filter. Values are
// always bound as parameters, never spliced into the SQL text.
func NewAlumniQuery(scope access.Scope, filter models.AlumniFilter) AlumniQuery {
	var preds []squirrel.Sqlizer

	if scope.Restricted() {
		preds = append(preds, squirrel.Eq{"department": scope.DepartmentName()})
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" && !strings.EqualFold(dept, "all") {
		preds = append(preds, squirrel.Eq{"department": dept})
	}
	if filter.GraduationYear != nil {
		preds = append(preds, squirrel.Eq{"graduation_year": *filter.GraduationYear})
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		or := make(squirrel.Or, 0, len(searchColumns))
		for _, col := range searchColumns {
			or = append(or, squirrel.ILike{col: pattern})
		}
		preds = append(preds, or)
	}
	if filter.IsInField != nil {
		preds = append(preds, squirrel.Eq{"is_in_field": *filter.IsInField})
	}

	q := AlumniQuery{preds: preds}
	if filter.Limit > 0 {
		q.limit = uint64(filter.Limit)
		q.offset = uint64(filter.Offset())
	}
	return q
}

func (q AlumniQuery) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	for _, p := range q.preds {
		b = b.Where(p)
	}
	return b
}

// ListSQL renders the page query, newest updates first.
func (q AlumniQuery) ListSQL() (string, []interface{}, error) {
	b := q.apply(psql.Select(alumniColumns...).From(alumniTable)).
		OrderBy("updated_at DESC", "id DESC")
	if q.limit > 0 {
		b = b.Limit(q.limit).Offset(q.offset)
	}
	return b.ToSql()
}

// CountSQL renders the total-count query over the same predicates.
func (q AlumniQuery) CountSQL() (string, []interface{}, error) {
	return q.apply(psql.Select("COUNT(*)").From(alumniTable)).ToSql()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

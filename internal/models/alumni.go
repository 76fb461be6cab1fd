package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EmploymentStatus is the closed set of employment states tracked per alumnus.
type EmploymentStatus string

const (
	EmploymentEmployed         EmploymentStatus = "employed"
	EmploymentUnemployed       EmploymentStatus = "unemployed"
	EmploymentSelfEmployed     EmploymentStatus = "self_employed"
	EmploymentFurtherEducation EmploymentStatus = "further_education"
)

// Defaults applied to new records when the caller omits the field.
const (
	DefaultDegreeType       = "Bachelor"
	DefaultEmploymentStatus = EmploymentEmployed
)

// Valid reports whether s is one of the known statuses.
func (s EmploymentStatus) Valid() bool {
	switch s {
	case EmploymentEmployed, EmploymentUnemployed, EmploymentSelfEmployed, EmploymentFurtherEducation:
		return true
	}
	return false
}

// Alumni is one graduate's profile as stored in the alumni table.
type Alumni struct {
	ID               int64            `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Email            string           `db:"email" json:"email"`
	StudentID        *string          `db:"student_id" json:"student_id"`
	Department       string           `db:"department" json:"department"`
	GraduationYear   int              `db:"graduation_year" json:"graduation_year"`
	DegreeType       string           `db:"degree_type" json:"degree_type"`
	CurrentPosition  *string          `db:"current_position" json:"current_position"`
	Company          *string          `db:"company" json:"company"`
	IsInField        bool             `db:"is_in_field" json:"is_in_field"`
	Salary           *float64         `db:"salary" json:"salary"`
	Location         *string          `db:"location" json:"location"`
	EmploymentStatus EmploymentStatus `db:"employment_status" json:"employment_status"`
	LinkedinURL      *string          `db:"linkedin_url" json:"linkedin_url"`
	Phone            *string          `db:"phone" json:"phone"`
	Notes            *string          `db:"notes" json:"notes"`
	CreatedBy        *int64           `db:"created_by" json:"created_by"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// AlumniFilter holds the optional list criteria supplied by the caller.
// Empty strings and nil pointers mean "no filter".
type AlumniFilter struct {
	Department     string
	GraduationYear *int
	Search         string
	IsInField      *bool
	Page           int
	Limit          int
}

// Normalize applies pagination defaults and clamps the page size.
func (f AlumniFilter) Normalize(defaultLimit, maxLimit int) AlumniFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if maxLimit > 0 && f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Offset returns the number of rows to skip for the current page.
func (f AlumniFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination derives the page count as ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Truthy decodes loosely typed boolean inputs: JSON booleans, numbers and
// strings such as "1", "true", "yes" or "on".
type Truthy bool

// UnmarshalJSON implements json.Unmarshaler.
func (t *Truthy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = Truthy(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean value %s", string(data))
	}
	v, err := ParseTruthy(s)
	if err != nil {
		return err
	}
	*t = Truthy(v)
	return nil
}

// ParseTruthy interprets the string forms accepted for boolean inputs.
func ParseTruthy(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}

package models

import (
	"database/sql"
	"time"
)

// DepartmentCounts is the raw aggregate row for one department.
type DepartmentCounts struct {
	Department string          `db:"department"`
	Total      int             `db:"total"`
	Employed   int             `db:"employed"`
	InField    int             `db:"in_field"`
	AvgSalary  sql.NullFloat64 `db:"avg_salary"`
}

// LabelCount is a grouped count such as a job title or company.
type LabelCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

// YearCounts aggregates one graduation year.
type YearCounts struct {
	Year     int `db:"year"`
	Total    int `db:"total"`
	Employed int `db:"employed"`
	InField  int `db:"in_field"`
}

// InstitutionCounts aggregates the whole alumni population.
type InstitutionCounts struct {
	Total       int `db:"total"`
	Employed    int `db:"employed"`
	InField     int `db:"in_field"`
	RecentGrads int `db:"recent_grads"`
}

// JobTitleStat is one entry in a department's top job titles.
type JobTitleStat struct {
	Title      string  `json:"title"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CompanyStat is one entry in a department's top employers.
type CompanyStat struct {
	Company       string `json:"company"`
	EmployeeCount int    `json:"employee_count"`
}

// YearTrend summarises a graduation cohort.
type YearTrend struct {
	Year           int     `json:"year"`
	Count          int     `json:"count"`
	Employed       int     `json:"employed"`
	InField        int     `json:"in_field"`
	EmploymentRate float64 `json:"employment_rate"`
	InFieldRate    float64 `json:"in_field_rate"`
}

// DepartmentOverview is the analytics payload for a single department.
type DepartmentOverview struct {
	Department            string         `json:"department"`
	TotalAlumni           int            `json:"total_alumni"`
	EmployedCount         int            `json:"employed_count"`
	InFieldCount          int            `json:"in_field_count"`
	EmploymentRate        float64        `json:"employment_rate"`
	InFieldRate           float64        `json:"in_field_rate"`
	InFieldRateOfTotal    float64        `json:"in_field_rate_of_total"`
	InFieldRateOfEmployed float64        `json:"in_field_rate_of_employed"`
	AvgSalary             string         `json:"avg_salary"`
	AvgSalaryAmount       float64        `json:"avg_salary_amount"`
	TopJobTitles          []JobTitleStat `json:"top_job_titles"`
	TopCompanies          []CompanyStat  `json:"top_companies"`
	GraduationYearTrends  []YearTrend    `json:"graduation_year_trends"`
}

// DepartmentComparison is one row of the institution-wide comparison.
type DepartmentComparison struct {
	Department      string  `json:"department"`
	TotalCount      int     `json:"total_count"`
	EmployedCount   int     `json:"employed_count"`
	InFieldCount    int     `json:"in_field_count"`
	EmploymentRate  float64 `json:"employment_rate"`
	InFieldRate     float64 `json:"in_field_rate"`
	AvgSalary       string  `json:"avg_salary"`
	AvgSalaryAmount float64 `json:"avg_salary_amount"`
}

// InstitutionalOverview is the analytics payload across all departments.
type InstitutionalOverview struct {
	TotalAlumni                  int                    `json:"total_alumni"`
	EmployedCount                int                    `json:"employed_count"`
	InFieldCount                 int                    `json:"in_field_count"`
	OverallEmploymentRate        float64                `json:"overall_employment_rate"`
	OverallInFieldRate           float64                `json:"overall_in_field_rate"`
	OverallInFieldRateOfTotal    float64                `json:"overall_in_field_rate_of_total"`
	OverallInFieldRateOfEmployed float64                `json:"overall_in_field_rate_of_employed"`
	RecentGraduatesCount         int                    `json:"recent_graduates_count"`
	DepartmentComparison         []DepartmentComparison `json:"department_comparison"`
}

// SystemMetrics summarises runtime metrics for operators.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	ErrorResponses           uint64    `json:"error_responses"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	Goroutines               int       `json:"goroutines"`
	UptimeSeconds            float64   `json:"uptime_seconds"`
	GeneratedAt              time.Time `json:"generated_at"`
}

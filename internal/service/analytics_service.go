package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

const (
	topListSize     = 10
	trendYears      = 5
	recentGradYears = 1
)

// AnalyticsRepository describes the aggregation queries required by AnalyticsService.
type AnalyticsRepository interface {
	DepartmentCounts(ctx context.Context, department string) (models.DepartmentCounts, error)
	TopJobTitles(ctx context.Context, department string, limit int) ([]models.LabelCount, error)
	TopCompanies(ctx context.Context, department string, limit int) ([]models.LabelCount, error)
	GraduationTrends(ctx context.Context, department string, years int) ([]models.YearCounts, error)
	InstitutionCounts(ctx context.Context, recentSince int) (models.InstitutionCounts, error)
	DepartmentBreakdown(ctx context.Context) ([]models.DepartmentCounts, error)
}

// AnalyticsService computes department and institutional outcome statistics.
type AnalyticsService struct {
	repo    AnalyticsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
	now     func() time.Time
	printer *message.Printer
}

// NewAnalyticsService constructs an analytics service. A zero ttl uses the
// cache service default.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		printer: message.NewPrinter(language.English),
	}
}

// Department returns the overview for one department. The boolean reports a
// cache hit.
func (s *AnalyticsService) Department(ctx context.Context, p access.Principal, department string) (*models.DepartmentOverview, bool, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "Department parameter is required")
	}
	scope, err := p.Scope()
	if err != nil {
		return nil, false, err
	}
	if err := scope.Authorize(department); err != nil {
		return nil, false, err
	}

	var overview models.DepartmentOverview
	hit, err := s.cache.Remember(ctx, makeAnalyticsCacheKey("department", department), &overview, s.ttl, func() (interface{}, error) {
		built, err := s.buildDepartment(ctx, department)
		if err != nil {
			return nil, err
		}
		overview = *built
		return built, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &overview, hit, nil
}

// Overview returns institution-wide statistics with a per-department comparison.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.InstitutionalOverview, bool, error) {
	var overview models.InstitutionalOverview
	hit, err := s.cache.Remember(ctx, makeAnalyticsCacheKey("overview"), &overview, s.ttl, func() (interface{}, error) {
		built, err := s.buildOverview(ctx)
		if err != nil {
			return nil, err
		}
		overview = *built
		return built, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &overview, hit, nil
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) buildDepartment(ctx context.Context, department string) (*models.DepartmentOverview, error) {
	start := time.Now()
	counts, err := s.repo.DepartmentCounts(ctx, department)
	if err != nil {
		return nil, s.storeFailure(err, "department counts")
	}
	titles, err := s.repo.TopJobTitles(ctx, department, topListSize)
	if err != nil {
		return nil, s.storeFailure(err, "top job titles")
	}
	companies, err := s.repo.TopCompanies(ctx, department, topListSize)
	if err != nil {
		return nil, s.storeFailure(err, "top companies")
	}
	years, err := s.repo.GraduationTrends(ctx, department, trendYears)
	if err != nil {
		return nil, s.storeFailure(err, "graduation trends")
	}
	s.metrics.ObserveDBQuery("analytics_department", time.Since(start))

	avg := avgSalary(counts)
	overview := &models.DepartmentOverview{
		Department:            department,
		TotalAlumni:           counts.Total,
		EmployedCount:         counts.Employed,
		InFieldCount:          counts.InField,
		EmploymentRate:        rate(counts.Employed, counts.Total),
		InFieldRate:           rate(counts.InField, counts.Employed),
		InFieldRateOfTotal:    rate(counts.InField, counts.Total),
		InFieldRateOfEmployed: rate(counts.InField, counts.Employed),
		AvgSalary:             s.formatCurrency(avg),
		AvgSalaryAmount:       round1(avg),
		TopJobTitles:          make([]models.JobTitleStat, 0, len(titles)),
		TopCompanies:          make([]models.CompanyStat, 0, len(companies)),
		GraduationYearTrends:  make([]models.YearTrend, 0, len(years)),
	}
	for _, t := range titles {
		overview.TopJobTitles = append(overview.TopJobTitles, models.JobTitleStat{
			Title:      t.Label,
			Count:      t.Count,
			Percentage: rate(t.Count, counts.Total),
		})
	}
	for _, c := range companies {
		overview.TopCompanies = append(overview.TopCompanies, models.CompanyStat{Company: c.Label, EmployeeCount: c.Count})
	}
	for _, y := range years {
		overview.GraduationYearTrends = append(overview.GraduationYearTrends, models.YearTrend{
			Year:           y.Year,
			Count:          y.Total,
			Employed:       y.Employed,
			InField:        y.InField,
			EmploymentRate: rate(y.Employed, y.Total),
			InFieldRate:    rate(y.InField, y.Employed),
		})
	}
	return overview, nil
}

func (s *AnalyticsService) buildOverview(ctx context.Context) (*models.InstitutionalOverview, error) {
	start := time.Now()
	recentSince := s.now().Year() - recentGradYears
	counts, err := s.repo.InstitutionCounts(ctx, recentSince)
	if err != nil {
		return nil, s.storeFailure(err, "institution counts")
	}
	departments, err := s.repo.DepartmentBreakdown(ctx)
	if err != nil {
		return nil, s.storeFailure(err, "department breakdown")
	}
	s.metrics.ObserveDBQuery("analytics_overview", time.Since(start))

	overview := &models.InstitutionalOverview{
		TotalAlumni:                  counts.Total,
		EmployedCount:                counts.Employed,
		InFieldCount:                 counts.InField,
		OverallEmploymentRate:        rate(counts.Employed, counts.Total),
		OverallInFieldRate:           rate(counts.InField, counts.Employed),
		OverallInFieldRateOfTotal:    rate(counts.InField, counts.Total),
		OverallInFieldRateOfEmployed: rate(counts.InField, counts.Employed),
		RecentGraduatesCount:         counts.RecentGrads,
		DepartmentComparison:         make([]models.DepartmentComparison, 0, len(departments)),
	}
	for _, d := range departments {
		avg := avgSalary(d)
		overview.DepartmentComparison = append(overview.DepartmentComparison, models.DepartmentComparison{
			Department:      d.Department,
			TotalCount:      d.Total,
			EmployedCount:   d.Employed,
			InFieldCount:    d.InField,
			EmploymentRate:  rate(d.Employed, d.Total),
			InFieldRate:     rate(d.InField, d.Employed),
			AvgSalary:       s.formatCurrency(avg),
			AvgSalaryAmount: round1(avg),
		})
	}
	return overview, nil
}

func (s *AnalyticsService) storeFailure(err error, stage string) error {
	s.logger.Error("analytics query failed", zap.String("stage", stage), zap.Error(err))
	return storeFailure(err, "failed to compute analytics")
}

// formatCurrency renders whole dollars with thousands separators, e.g. "$75,000".
func (s *AnalyticsService) formatCurrency(amount float64) string {
	return s.printer.Sprintf("$%d", int64(math.Round(amount)))
}

// rate returns part/whole as a percentage rounded to one decimal, or 0 when
// whole is 0.
func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func avgSalary(c models.DepartmentCounts) float64 {
	if !c.AvgSalary.Valid {
		return 0
	}
	return c.AvgSalary.Float64
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

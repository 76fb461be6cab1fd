package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/export"
)

var alumniExportHeaders = []string{
	"ID", "Name", "Email", "Department", "Graduation Year", "Degree",
	"Position", "Company", "In Field", "Employment Status", "Salary", "Location",
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
	Rows        int
}

// ExportService renders the caller-visible alumni records as CSV or PDF.
type ExportService struct {
	repo    alumniRepository
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	maxRows int
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(repo alumniRepository, maxRows int, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 5000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, logger: logger, maxRows: maxRows, now: time.Now}
}

// Alumni renders the records matching filter inside the caller's scope.
// Pagination fields of filter are ignored; at most maxRows records are rendered.
func (s *ExportService) Alumni(ctx context.Context, p access.Principal, filter models.AlumniFilter, format export.Format) (*ExportResult, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = 1, s.maxRows

	items, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		s.logger.Error("export alumni query failed", zap.Error(err))
		return nil, storeFailure(err, "failed to export alumni")
	}
	if total > len(items) {
		s.logger.Warn("alumni export truncated", zap.Int("total", total), zap.Int("rendered", len(items)))
	}

	dataset := alumniDataset(items)
	var content []byte
	switch format {
	case export.FormatPDF:
		content, err = s.pdf.Render(dataset, "Alumni Report")
	case export.FormatCSV:
		content, err = s.csv.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		s.logger.Error("render alumni export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render export")
	}

	return &ExportResult{
		Content:     content,
		ContentType: format.ContentType(),
		Filename:    fmt.Sprintf("alumni-%s.%s", s.now().Format("20060102-150405"), format.Extension()),
		Rows:        len(items),
	}, nil
}

func alumniDataset(items []models.Alumni) export.Dataset {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		salary := ""
		if a.Salary != nil {
			salary = strconv.FormatFloat(*a.Salary, 'f', 2, 64)
		}
		inField := "No"
		if a.IsInField {
			inField = "Yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.Name,
			a.Email,
			a.Department,
			strconv.Itoa(a.GraduationYear),
			a.DegreeType,
			deref(a.CurrentPosition),
			deref(a.Company),
			inField,
			string(a.EmploymentStatus),
			salary,
			deref(a.Location),
		})
	}
	return export.Dataset{Headers: alumniExportHeaders, Rows: rows}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

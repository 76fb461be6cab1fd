package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/export"
)

func newExportServiceForTest(repo alumniRepository, maxRows int) *ExportService {
	svc := NewExportService(repo, maxRows, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportCSVRespectsScope(t *testing.T) {
	cs := alumnus(1, "Computer Science", 2022, true, models.EmploymentEmployed)
	cs.Salary = salary(72000)
	repo := newMemoryAlumniRepo(cs, alumnus(2, "Physics", 2021, false, models.EmploymentUnemployed))
	svc := newExportServiceForTest(repo, 0)

	res, err := svc.Alumni(context.Background(), deanCS, models.AlumniFilter{Page: 4, Limit: 2}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.Equal(t, "alumni-20240501-103000.csv", res.Filename)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 5000, repo.lastFilter.Limit)

	records, err := csv.NewReader(bytes.NewReader(res.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, alumniExportHeaders, records[0])
	assert.Equal(t, "Computer Science", records[1][3])
	assert.Equal(t, "Yes", records[1][8])
	assert.Equal(t, "72000.00", records[1][10])
}

func TestExportPDF(t *testing.T) {
	repo := newMemoryAlumniRepo(alumnus(1, "Physics", 2020, true, models.EmploymentSelfEmployed))
	svc := newExportServiceForTest(repo, 10)

	res, err := svc.Alumni(context.Background(), admin, models.AlumniFilter{}, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF")))
	assert.Equal(t, 10, repo.lastFilter.Limit)
}

func TestExportStoreFailure(t *testing.T) {
	repo := newMemoryAlumniRepo()
	repo.err = errors.New("connection reset")
	svc := newExportServiceForTest(repo, 10)

	_, err := svc.Alumni(context.Background(), admin, models.AlumniFilter{}, export.FormatCSV)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	"github.com/noah-isme/alumni-tracking-api/internal/service"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/export"
)

type fakeAlumniSrv struct {
	lastPrincipal access.Principal
	lastFilter    models.AlumniFilter
	lastCreate    service.CreateAlumniRequest
	lastUpdate    service.UpdateAlumniRequest
	items         []models.Alumni
	err           error
}

func (f *fakeAlumniSrv) List(_ context.Context, p access.Principal, filter models.AlumniFilter) ([]models.Alumni, *models.Pagination, error) {
	f.lastPrincipal, f.lastFilter = p, filter
	if f.err != nil {
		return nil, nil, f.err
	}
	pg := models.NewPagination(1, 50, len(f.items))
	return f.items, &pg, nil
}

func (f *fakeAlumniSrv) Get(_ context.Context, p access.Principal, id int64) (*models.Alumni, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Alumni{ID: id, Name: "Ada"}, nil
}

func (f *fakeAlumniSrv) Create(_ context.Context, p access.Principal, req service.CreateAlumniRequest) (int64, error) {
	f.lastCreate = req
	return 31, f.err
}

func (f *fakeAlumniSrv) Update(_ context.Context, p access.Principal, id int64, req service.UpdateAlumniRequest) error {
	f.lastUpdate = req
	return f.err
}

func (f *fakeAlumniSrv) Delete(_ context.Context, p access.Principal, id int64) error {
	return f.err
}

type fakeExporter struct {
	lastFormat export.Format
	lastFilter models.AlumniFilter
}

func (f *fakeExporter) Alumni(_ context.Context, p access.Principal, filter models.AlumniFilter, format export.Format) (*service.ExportResult, error) {
	f.lastFormat, f.lastFilter = format, filter
	return &service.ExportResult{Content: []byte("ID,Name\n"), ContentType: format.ContentType(), Filename: "alumni." + format.Extension()}, nil
}

func TestAlumniListParsesFilters(t *testing.T) {
	srv := &fakeAlumniSrv{items: []models.Alumni{{ID: 1, Name: "Ada"}}}
	h := NewAlumniHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/alumni?department=all&graduation_year=2022&search=%20ada%20&is_in_field=false&page=2&limit=abc", nil, deanClaims)
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)

	assert.Equal(t, "all", srv.lastFilter.Department)
	require.NotNil(t, srv.lastFilter.GraduationYear)
	assert.Equal(t, 2022, *srv.lastFilter.GraduationYear)
	require.NotNil(t, srv.lastFilter.IsInField)
	assert.False(t, *srv.lastFilter.IsInField)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 0, srv.lastFilter.Limit)
	assert.Equal(t, models.RoleDean, srv.lastPrincipal.Role)
	assert.Equal(t, "Computer Science", srv.lastPrincipal.Department)
}

func TestAlumniListTreatsAnyCaseAllYearAsNoFilter(t *testing.T) {
	for _, raw := range []string{"all", "All", "ALL"} {
		srv := &fakeAlumniSrv{}
		h := NewAlumniHandler(srv, nil)

		c, rec := newContext(http.MethodGet, "/alumni?graduation_year="+raw, nil, deanClaims)
		h.List(c)

		require.Equal(t, http.StatusOK, rec.Code, raw)
		assert.Nil(t, srv.lastFilter.GraduationYear, raw)
	}
}

func TestAlumniListRejectsMalformedFilters(t *testing.T) {
	h := NewAlumniHandler(&fakeAlumniSrv{}, nil)

	for _, target := range []string{"/alumni?graduation_year=twenty", "/alumni?is_in_field=maybe"} {
		c, rec := newContext(http.MethodGet, target, nil, deanClaims)
		h.List(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Code)
	}
}

func TestAlumniListEmptyIsArray(t *testing.T) {
	h := NewAlumniHandler(&fakeAlumniSrv{}, nil)
	c, rec := newContext(http.MethodGet, "/alumni?graduation_year=all", nil, deanClaims)
	h.List(c)
	assert.Equal(t, "[]", string(decode(t, rec).Data))
}

func TestAlumniRequiresPrincipal(t *testing.T) {
	h := NewAlumniHandler(&fakeAlumniSrv{}, nil)
	c, rec := newContext(http.MethodGet, "/alumni", nil, nil)
	h.List(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAlumniCreateReturnsID(t *testing.T) {
	srv := &fakeAlumniSrv{}
	h := NewAlumniHandler(srv, nil)

	body := `{"name":"Ada","email":"ada@example.edu","department":"Computer Science","graduation_year":2022,"is_in_field":"yes"}`
	c, rec := newContext(http.MethodPost, "/alumni", body, deanClaims)
	h.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.ID)
	assert.Equal(t, int64(31), *env.ID)
	assert.Equal(t, "Alumni added successfully", env.Message)
	require.NotNil(t, srv.lastCreate.IsInField)
	assert.True(t, bool(*srv.lastCreate.IsInField))
	created, ok := c.Get("created_id")
	assert.True(t, ok)
	assert.Equal(t, int64(31), created)
}

func TestAlumniCreateMalformedBody(t *testing.T) {
	h := NewAlumniHandler(&fakeAlumniSrv{}, nil)
	c, rec := newContext(http.MethodPost, "/alumni", `{"is_in_field":"perhaps"}`, deanClaims)
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlumniUpdateAndDeleteMapErrors(t *testing.T) {
	srv := &fakeAlumniSrv{err: appErrors.Clone(appErrors.ErrNotFound, "Alumni not found")}
	h := NewAlumniHandler(srv, nil)

	c, rec := newContext(http.MethodPut, "/alumni/9", `{"company":"Acme"}`, deanClaims)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Update(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Alumni not found", env.Error)
	require.NotNil(t, srv.lastUpdate.Company)
	assert.Nil(t, srv.lastUpdate.Name)

	srv.err = appErrors.Clone(appErrors.ErrForbidden, "Insufficient privileges")
	c, rec = newContext(http.MethodDelete, "/alumni/9", nil, deanClaims)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Delete(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(http.MethodDelete, "/alumni/x", nil, deanClaims)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlumniExport(t *testing.T) {
	exp := &fakeExporter{}
	h := NewAlumniHandler(&fakeAlumniSrv{}, exp)

	c, rec := newContext(http.MethodGet, "/alumni/export?format=PDF&department=Physics", nil, deanClaims)
	h.Export(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatPDF, exp.lastFormat)
	assert.Equal(t, "Physics", exp.lastFilter.Department)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="alumni.pdf"`)

	c, rec = newContext(http.MethodGet, "/alumni/export?format=xlsx", nil, deanClaims)
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

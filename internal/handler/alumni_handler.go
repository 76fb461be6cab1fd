package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/middleware"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	"github.com/noah-isme/alumni-tracking-api/internal/service"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/export"
	"github.com/noah-isme/alumni-tracking-api/pkg/response"
)

type alumniService interface {
	List(ctx context.Context, p access.Principal, filter models.AlumniFilter) ([]models.Alumni, *models.Pagination, error)
	Get(ctx context.Context, p access.Principal, id int64) (*models.Alumni, error)
	Create(ctx context.Context, p access.Principal, req service.CreateAlumniRequest) (int64, error)
	Update(ctx context.Context, p access.Principal, id int64, req service.UpdateAlumniRequest) error
	Delete(ctx context.Context, p access.Principal, id int64) error
}

type alumniExporter interface {
	Alumni(ctx context.Context, p access.Principal, filter models.AlumniFilter, format export.Format) (*service.ExportResult, error)
}

// AlumniHandler exposes alumni record endpoints.
type AlumniHandler struct {
	service  alumniService
	exporter alumniExporter
}

// NewAlumniHandler constructs the handler.
func NewAlumniHandler(svc alumniService, exporter alumniExporter) *AlumniHandler {
	return &AlumniHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List alumni
// @Description Records are limited to the caller's department unless the caller is an admin
// @Tags Alumni
// @Produce json
// @Param department query string false "Department or all"
// @Param graduation_year query string false "Graduation year or all"
// @Param search query string false "Matches name, email, position or company"
// @Param is_in_field query bool false "Working in field"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /alumni [get]
// @Security BearerAuth
func (h *AlumniHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter, err := parseAlumniFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, pagination, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.Alumni{}
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get alumni record
// @Tags Alumni
// @Produce json
// @Param id path int true "Alumni ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alumni/{id} [get]
// @Security BearerAuth
func (h *AlumniHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.service.Get(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create alumni record
// @Tags Alumni
// @Accept json
// @Produce json
// @Param payload body service.CreateAlumniRequest true "Alumni payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /alumni [post]
// @Security BearerAuth
func (h *AlumniHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid alumni payload"))
		return
	}

	id, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCreatedID(c, id)
	response.Created(c, id, "Alumni added successfully")
}

// Update godoc
// @Summary Update alumni record
// @Description Only the fields present in the body are changed
// @Tags Alumni
// @Accept json
// @Produce json
// @Param id path int true "Alumni ID"
// @Param payload body service.UpdateAlumniRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alumni/{id} [put]
// @Security BearerAuth
func (h *AlumniHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid alumni payload"))
		return
	}

	if err := h.service.Update(c.Request.Context(), p, id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Alumni updated successfully")
}

// Delete godoc
// @Summary Delete alumni record
// @Description Admin only
// @Tags Alumni
// @Produce json
// @Param id path int true "Alumni ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alumni/{id} [delete]
// @Security BearerAuth
func (h *AlumniHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Alumni deleted successfully")
}

// Export godoc
// @Summary Export alumni records
// @Description Accepts the list filters; pagination is ignored
// @Tags Alumni
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /alumni/export [get]
// @Security BearerAuth
func (h *AlumniHandler) Export(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	filter, err := parseAlumniFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exporter.Alumni(c.Request.Context(), p, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func parseAlumniFilter(c *gin.Context) (models.AlumniFilter, error) {
	filter := models.AlumniFilter{
		Department: strings.TrimSpace(c.Query("department")),
		Search:     c.Query("search"),
	}

	if raw := strings.TrimSpace(c.Query("graduation_year")); raw != "" && !strings.EqualFold(raw, "all") {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "graduation_year must be an integer")
		}
		filter.GraduationYear = &year
	}
	if raw := strings.TrimSpace(c.Query("is_in_field")); raw != "" {
		inField, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "is_in_field must be a boolean")
		}
		filter.IsInField = &inField
	}
	// Unparseable paging values fall back to defaults during normalization.
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	return filter, nil
}

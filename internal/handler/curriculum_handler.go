package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/middleware"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	"github.com/noah-isme/alumni-tracking-api/internal/service"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/response"
)

type curriculumService interface {
	List(ctx context.Context, p access.Principal, filter models.CurriculumFilter) ([]models.CurriculumSuggestion, error)
	Create(ctx context.Context, p access.Principal, req service.CreateSuggestionRequest) (int64, error)
	UpdateStatus(ctx context.Context, p access.Principal, id int64, req service.UpdateSuggestionStatusRequest) error
}

// CurriculumHandler exposes curriculum suggestion endpoints.
type CurriculumHandler struct {
	service curriculumService
}

// NewCurriculumHandler constructs the handler.
func NewCurriculumHandler(svc curriculumService) *CurriculumHandler {
	return &CurriculumHandler{service: svc}
}

// List godoc
// @Summary List curriculum suggestions
// @Tags Curriculum
// @Produce json
// @Param department query string false "Department or all"
// @Param status query string false "pending, approved, rejected or implemented"
// @Success 200 {object} response.Envelope
// @Router /curriculum/suggestions [get]
// @Security BearerAuth
func (h *CurriculumHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := models.CurriculumFilter{
		Department: strings.TrimSpace(c.Query("department")),
		Status:     strings.TrimSpace(c.Query("status")),
	}
	items, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.CurriculumSuggestion{}
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Propose curriculum change
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.CreateSuggestionRequest true "Suggestion"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /curriculum/suggestions [post]
// @Security BearerAuth
func (h *CurriculumHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid suggestion payload"))
		return
	}
	id, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCreatedID(c, id)
	response.Created(c, id, "Suggestion created successfully")
}

// UpdateStatus godoc
// @Summary Change suggestion status
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path int true "Suggestion ID"
// @Param payload body service.UpdateSuggestionStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /curriculum/suggestions/{id}/status [patch]
// @Security BearerAuth
func (h *CurriculumHandler) UpdateStatus(c *gin.Context) {
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
	var req service.UpdateSuggestionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid status payload"))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), p, id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Suggestion status updated")
}

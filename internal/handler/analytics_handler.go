package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/middleware"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
	"github.com/noah-isme/alumni-tracking-api/pkg/response"
)

type analyticsService interface {
	Department(ctx context.Context, p access.Principal, department string) (*models.DepartmentOverview, bool, error)
	Overview(ctx context.Context) (*models.InstitutionalOverview, bool, error)
	SystemMetrics() models.SystemMetrics
}

// AnalyticsHandler serves aggregated alumni outcomes.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(svc analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Department godoc
// @Summary Department analytics
// @Tags Analytics
// @Produce json
// @Param name path string true "Department name"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/department/{name} [get]
// @Security BearerAuth
func (h *AnalyticsHandler) Department(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	overview, hit, err := h.service.Department(c.Request.Context(), p, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ResponseMeta(c))
}

// Overview godoc
// @Summary Institutional analytics
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/overview [get]
// @Security BearerAuth
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, hit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ResponseMeta(c))
}

// System godoc
// @Summary Runtime metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
// @Security BearerAuth
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.SystemMetrics(), nil)
}

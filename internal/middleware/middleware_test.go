package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid or expired token")
	}
	return s.claims, nil
}

type auditSink struct {
	entries []*models.AuditLog
}

func (a *auditSink) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

type observed struct {
	path   string
	status int
}

type observerStub struct {
	calls []observed
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.calls = append(o.calls, observed{path: path, status: status})
}

func init() {
	gin.SetMode(gin.TestMode)
}

func deanClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 7, Username: "dean", Role: models.RoleDean, Department: "Physics"}
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresValidBearer(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWT(stubValidator{claims: deanClaims()}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Claims(c).Username})
	})

	rec := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Access token required", body["error"])

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "bad").Code)

	rec = do(r, http.MethodGet, "/me", "good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":"dean"`)
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/overview", JWT(stubValidator{claims: deanClaims()}), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	rec := do(r, http.MethodGet, "/overview", "good")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient privileges")

	r = gin.New()
	r.GET("/overview", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/overview", "").Code)
}

func TestAuditRecordsOnlySuccessfulMutations(t *testing.T) {
	sink := &auditSink{}
	r := gin.New()
	r.Use(JWT(stubValidator{claims: deanClaims()}))
	r.POST("/alumni", Audit(sink, nil, models.AuditActionAlumniCreate, "alumni"), func(c *gin.Context) {
		SetCreatedID(c, 42)
		c.Status(http.StatusCreated)
	})
	r.PUT("/alumni/:id", Audit(sink, nil, models.AuditActionAlumniUpdate, "alumni"), func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	do(r, http.MethodPost, "/alumni", "good")
	do(r, http.MethodPut, "/alumni/5", "good")

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	assert.Equal(t, models.AuditActionAlumniCreate, entry.Action)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "42", *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(7), *entry.UserID)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/alumni/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do(r, http.MethodGet, "/alumni/9", "")
	do(r, http.MethodGet, "/nowhere", "")

	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{path: "/alumni/:id", status: http.StatusNoContent}, obs.calls[0])
	assert.Equal(t, "unmatched", obs.calls[1].path)
}

func TestResponseMeta(t *testing.T) {
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/plain", func(c *gin.Context) { c.JSON(http.StatusOK, ResponseMeta(c)) })
	r.GET("/cached", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ResponseMeta(c))
	})

	assert.Equal(t, "null", do(r, http.MethodGet, "/plain", "").Body.String())
	assert.Contains(t, do(r, http.MethodGet, "/cached", "").Body.String(), `"cache_hit":true`)
}

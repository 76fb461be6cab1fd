package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/alumni-tracking-api/internal/service"
)

type pingStub struct{ err error }

func (p pingStub) PingContext(context.Context) error { return p.err }

func TestReadyReportsDependencies(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]Pinger{"database": pingStub{}, "cache": pingStub{err: errors.New("refused")}}, nil)
	c, rec := newContext(http.MethodGet, "/ready", nil, nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache":"down"`)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)

	h = NewMetricsHandler(nil, map[string]Pinger{"database": pingStub{}}, nil)
	c, rec = newContext(http.MethodGet, "/ready", nil, nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrometheusEndpoint(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/metrics", nil, nil)
	NewMetricsHandler(nil, nil, nil).Prometheus(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	metrics := service.NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/alumni", http.StatusOK, 0)
	c, rec = newContext(http.MethodGet, "/metrics", nil, nil)
	NewMetricsHandler(metrics, nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

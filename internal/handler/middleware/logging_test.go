//go:build unit

package middleware_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"service-booking/internal/handler/middleware"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"
	"service-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_RecordsRouteMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	logger := middleware.NewLogger(config.NewTestConfig().Log, m)

	r := gin.New()
	r.Use(logger.LoggingMiddleware())
	r.GET("/items/:id", func(c *gin.Context) {
		assert.NotEmpty(t, middleware.GetRequestID(c))
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		httptest.PerformRequest(t, r, http.MethodGet, path, nil, "")
	}

	count, err := testutil.GatherAndCount(m.Registry(), "service_booking_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per route and status")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	samples := map[string]uint64{}
	for _, f := range families {
		if f.GetName() != "service_booking_http_request_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "route" {
					samples[l.GetValue()] = metric.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	assert.Equal(t, map[string]uint64{"/items/:id": 2, "unmatched": 1}, samples)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.NewTestConfig().Log, metrics.New())

	r := gin.New()
	r.Use(logger.LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("inbound id is kept", func(t *testing.T) {
		req := nethttptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-abc")
		w := nethttptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-abc", w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "req-abc", w.Body.String())
	})

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/ping", nil, "")
		id := w.Header().Get(middleware.RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})
}

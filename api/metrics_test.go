package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNormalizeRoutePath(t *testing.T) {
	assert.Equal(t, "/api/v1/reports/{id}", normalizeRoutePath("/api/v1/reports/42"))
	assert.Equal(t, "/api/v1/reports/{id}/{id}", normalizeRoutePath("/api/v1/reports/1/2"))
	assert.Equal(t, "/api/v1/reports", normalizeRoutePath("/api/v1/reports/"))
	assert.Equal(t, "/", normalizeRoutePath("/"))
}

func TestMetricsMiddlewareRecords(t *testing.T) {
	defer goleak.VerifyNone(t)

	mc := NewMetricsCollector(100, time.Hour)
	defer mc.Stop()

	handler := mc.MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestID(r.Context()))
		if r.Method == "DELETE" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, req := range []*http.Request{
		httptest.NewRequest("GET", "/api/v1/reports", nil),
		httptest.NewRequest("DELETE", "/api/v1/reports/7", nil),
		httptest.NewRequest("DELETE", "/api/v1/reports/8", nil),
		httptest.NewRequest("GET", "/health", nil),
	} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}

	require.Eventually(t, func() bool { return mc.GetSummary().TotalRequests == 3 }, time.Second, 5*time.Millisecond)

	summary := mc.GetSummary()
	assert.Equal(t, int64(2), summary.TotalErrors)
	assert.Equal(t, 2, summary.RouteCount)
	assert.Len(t, mc.GetTraces(10), 3)
	assert.Len(t, mc.GetTraces(1), 1)

	routes := mc.GetSlowestRoutes(10)
	require.Len(t, routes, 2)
	var deletes RouteMetrics
	for _, r := range routes {
		if r.Method == "DELETE" {
			deletes = r
		}
	}
	assert.Equal(t, "/api/v1/reports/{id}", deletes.Path)
	assert.Equal(t, int64(2), deletes.Count)
	assert.Equal(t, int64(2), deletes.ErrorCount)
}

func TestMetricsCollectorDropsAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	mc := NewMetricsCollector(10, time.Hour)
	mc.Stop()
	mc.Stop()

	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/"})

	assert.Zero(t, mc.GetSummary().TotalRequests)
}

func TestMetricsCollectorBoundsTraces(t *testing.T) {
	mc := NewMetricsCollector(2, time.Hour)
	defer mc.Stop()

	for i := 0; i < 5; i++ {
		mc.processTrace(RequestTrace{Method: "GET", Path: "/api/v1/reports", StartTime: time.Now(), TotalDuration: time.Duration(i) * time.Millisecond})
	}

	assert.Len(t, mc.GetTraces(10), 2)
	routes := mc.GetSlowestRoutes(1)
	require.Len(t, routes, 1)
	assert.Equal(t, int64(5), routes[0].Count)
	assert.Equal(t, 4*time.Millisecond, routes[0].MaxTime)
	assert.Equal(t, time.Duration(0), routes[0].MinTime)
}

func TestMetricsCollectorExpire(t *testing.T) {
	mc := NewMetricsCollector(10, time.Minute)
	defer mc.Stop()

	now := time.Now()
	mc.processTrace(RequestTrace{Method: "GET", Path: "/a", StartTime: now.Add(-2 * time.Minute)})
	mc.processTrace(RequestTrace{Method: "GET", Path: "/a", StartTime: now})

	mc.expire(now)

	assert.Len(t, mc.GetTraces(10), 1)
}

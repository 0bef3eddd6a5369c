package handlers

import (
	"net/http"
	"strconv"

	"github.com/linesmerrill/wildlife-watch-api/api"
)

// formatRouteMetrics converts durations to milliseconds for JSON
func formatRouteMetrics(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"p95Time":     route.P95Time.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

func formatTraces(traces []api.RequestTrace) []map[string]interface{} {
	result := make([]map[string]interface{}, len(traces))
	for i, trace := range traces {
		result[i] = map[string]interface{}{
			"requestId":     trace.RequestID,
			"method":        trace.Method,
			"path":          trace.Path,
			"status":        trace.Status,
			"startTime":     trace.StartTime,
			"totalDuration": trace.TotalDuration.Milliseconds(),
			"error":         trace.Error,
		}
	}
	return result
}

// MetricsHandler serves the request metrics summary
type MetricsHandler struct {
	Metrics *api.MetricsCollector
}

// GetMetricsHandler returns totals, the slowest routes and the latest traces
func (m MetricsHandler) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":       m.Metrics.GetSummary(),
		"slowestRoutes": formatRouteMetrics(m.Metrics.GetSlowestRoutes(limit)),
		"recentTraces":  formatTraces(m.Metrics.GetTraces(limit)),
	})
}

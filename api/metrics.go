package api

import (
	"regexp"
	"sort"
	"sync"
	"time"
)

// RequestTrace is the timing of one request
type RequestTrace struct {
	RequestID     string        `json:"requestId"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Status        int           `json:"status"`
	StartTime     time.Time     `json:"startTime"`
	TotalDuration time.Duration `json:"totalDuration"`
	Error         string        `json:"error,omitempty"`
}

// RouteMetrics aggregates traces for one method and normalized path
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	P95Time     time.Duration `json:"p95Time"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is the collector's totals over its window
type MetricsSummary struct {
	TotalRequests int64     `json:"totalRequests"`
	TotalErrors   int64     `json:"totalErrors"`
	ErrorRate     float64   `json:"errorRate"`
	RequestsPerS  float64   `json:"tps"`
	WindowStart   time.Time `json:"windowStart"`
	RouteCount    int       `json:"routeCount"`
	TraceCount    int       `json:"traceCount"`
}

// MetricsCollector aggregates request traces in the background. Recording
// never blocks a request: traces are dropped when the queue is full.
type MetricsCollector struct {
	mu             sync.RWMutex
	traces         []RequestTrace
	maxTraces      int
	routeMetrics   map[string]*RouteMetrics
	windowStart    time.Time
	windowDuration time.Duration
	totalRequests  int64
	totalErrors    int64

	traceChan chan RequestTrace
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewMetricsCollector starts a collector keeping at most maxTraces traces from
// the last window. Stop releases its goroutines.
func NewMetricsCollector(maxTraces int, window time.Duration) *MetricsCollector {
	mc := &MetricsCollector{
		traces:         make([]RequestTrace, 0, maxTraces),
		maxTraces:      maxTraces,
		routeMetrics:   make(map[string]*RouteMetrics),
		windowStart:    time.Now(),
		windowDuration: window,
		traceChan:      make(chan RequestTrace, 1000),
		stopChan:       make(chan struct{}),
	}
	mc.wg.Add(1)
	go mc.run()
	return mc
}

// Stop ends background processing. Traces recorded afterwards are dropped.
func (mc *MetricsCollector) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopChan) })
	mc.wg.Wait()
}

// RecordTrace queues a trace without blocking
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case <-mc.stopChan:
		return
	default:
	}
	select {
	case mc.traceChan <- trace:
	default:
	}
}

func (mc *MetricsCollector) run() {
	defer mc.wg.Done()
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case now := <-ticker.C:
			mc.expire(now)
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces && len(mc.traces) > 0 {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	path := normalizeRoutePath(trace.Path)
	routeKey := trace.Method + " " + path
	metrics, ok := mc.routeMetrics[routeKey]
	if !ok {
		metrics = &RouteMetrics{Method: trace.Method, Path: path, MinTime: trace.TotalDuration}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	metrics.MinTime = min(metrics.MinTime, trace.TotalDuration)
	metrics.MaxTime = max(metrics.MaxTime, trace.TotalDuration)
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	mc.totalRequests++

	if metrics.Count%20 == 0 {
		metrics.P95Time = mc.percentile(routeKey, 0.95)
	}
}

// percentile must be called with mu held
func (mc *MetricsCollector) percentile(routeKey string, p float64) time.Duration {
	var durations []time.Duration
	for _, trace := range mc.traces {
		if trace.Method+" "+normalizeRoutePath(trace.Path) == routeKey {
			durations = append(durations, trace.TotalDuration)
		}
	}
	if len(durations) == 0 {
		return 0
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	idx := min(int(float64(len(durations))*p), len(durations)-1)
	return durations[idx]
}

func (mc *MetricsCollector) expire(now time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	cutoff := now.Add(-mc.windowDuration)
	kept := mc.traces[:0]
	for _, trace := range mc.traces {
		if trace.StartTime.After(cutoff) {
			kept = append(kept, trace)
		}
	}
	mc.traces = kept
	if now.Sub(mc.windowStart) > mc.windowDuration {
		mc.windowStart = now
	}
}

// GetTraces returns up to limit of the newest traces, oldest first
func (mc *MetricsCollector) GetTraces(limit int) []RequestTrace {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	start := max(len(mc.traces)-limit, 0)
	out := make([]RequestTrace, len(mc.traces)-start)
	copy(out, mc.traces[start:])
	return out
}

// GetSlowestRoutes returns routes by descending average time
func (mc *MetricsCollector) GetSlowestRoutes(limit int) []RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, metrics := range mc.routeMetrics {
		routes = append(routes, *metrics)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].AvgTime == routes[j].AvgTime {
			return routes[i].Method+routes[i].Path < routes[j].Method+routes[j].Path
		}
		return routes[i].AvgTime > routes[j].AvgTime
	})
	if limit < len(routes) {
		routes = routes[:limit]
	}
	return routes
}

// GetSummary returns totals for the current window
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	elapsed := min(time.Since(mc.windowStart), mc.windowDuration)
	summary := MetricsSummary{
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		WindowStart:   mc.windowStart,
		RouteCount:    len(mc.routeMetrics),
		TraceCount:    len(mc.traces),
	}
	if elapsed > 0 {
		summary.RequestsPerS = float64(mc.totalRequests) / elapsed.Seconds()
	}
	if mc.totalRequests > 0 {
		summary.ErrorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}
	return summary
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// normalizeRoutePath folds report ids into a placeholder so
// /api/v1/reports/42 and /api/v1/reports/43 share one route.
func normalizeRoutePath(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

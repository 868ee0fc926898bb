package metrics

import (
	"strconv"
	"time"

	"github.com/gsaclient/gsa/internal/observability"
)

// Upstream GSA metrics
const (
	UpstreamRequestsTotal   = "gsa_upstream_requests_total"
	UpstreamRequestDuration = "gsa_upstream_request_duration_ms"
	UpstreamErrorsTotal     = "gsa_upstream_errors_total"

	// Proxy operations (search, suggest) by outcome
	OperationsTotal = "gsa_operations_total"

	ServerStartTime = "gsa_server_start_time_seconds"
)

// UpstreamObserver records every GSA round trip. It satisfies gsa.Observer.
type UpstreamObserver struct{}

// ObserveRequest emits request count, latency and transport failures.
func (UpstreamObserver) ObserveRequest(endpoint, method string, statusCode int, duration time.Duration, err error) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}

	status := strconv.Itoa(statusCode)
	if err != nil {
		status = "error"
	}

	_ = sys.Counter(UpstreamRequestsTotal, 1, map[string]string{
		"endpoint": endpoint,
		"method":   method,
		"status":   status,
	})
	_ = sys.Histogram(UpstreamRequestDuration, duration, map[string]string{
		"endpoint": endpoint,
	})
	if err != nil {
		_ = sys.Counter(UpstreamErrorsTotal, 1, map[string]string{
			"endpoint": endpoint,
			"method":   method,
		})
	}
}

// RecordOperation counts a proxy operation with its outcome.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(OperationsTotal, 1, map[string]string{
			"operation": operation,
			"status":    status,
		})
	}
}

// SetServerStartTime records the server start time (Unix timestamp).
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
	}
}

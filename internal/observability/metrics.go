package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	domainErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_errors_total",
			Help: "Total number of domain errors surfaced to clients",
		},
		[]string{"path", "method", "code"},
	)

	agentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_created_total",
			Help: "Total number of agents created, by hierarchy type",
		},
		[]string{"type"},
	)

	agentsDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_deleted_total",
			Help: "Total number of agents deleted, by hierarchy type",
		},
		[]string{"type"},
	)

	reportsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_reports_submitted_total",
			Help: "Total number of agent reports submitted",
		},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of administrator authentication attempts",
		},
		[]string{"status"},
	)
)

// RecordHTTPRequest tracks one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordDomainError tracks an error response by taxonomy code.
func RecordDomainError(path, method, code string) {
	domainErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordAgentCreated tracks a successful agent creation.
func RecordAgentCreated(agentType string) {
	agentsTotal.WithLabelValues(agentType).Inc()
}

// RecordAgentDeleted tracks a successful agent deletion.
func RecordAgentDeleted(agentType string) {
	agentsDeletedTotal.WithLabelValues(agentType).Inc()
}

// RecordReportSubmitted tracks an accepted agent report.
func RecordReportSubmitted() {
	reportsSubmittedTotal.Inc()
}

// RecordAuthAttempt tracks an admin login attempt outcome.
func RecordAuthAttempt(status string) {
	authAttemptsTotal.WithLabelValues(status).Inc()
}

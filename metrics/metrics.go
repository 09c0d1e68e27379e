package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "werego_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	ReportsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "werego_reports_created_total",
			Help: "Total number of accepted traffic reports",
		},
		[]string{"type"},
	)

	ReportsUpvoted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "werego_reports_upvoted_total",
			Help: "Total number of successful upvotes",
		},
	)

	// Lifecycle
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "werego_sweep_runs_total",
			Help: "Total number of expired report sweeps by result",
		},
		[]string{"result"},
	)

	SweepDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "werego_sweep_deleted_reports_total",
			Help: "Total number of reports removed by the sweeper",
		},
	)

	ReportsArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "werego_reports_archived_total",
			Help: "Total number of archive attempts by result",
		},
		[]string{"result"},
	)

	// Correlation
	CorrelationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "werego_route_correlation_duration_seconds",
			Help:    "Duration of route traffic correlations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CongestedSegments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "werego_congested_segments_total",
			Help: "Total number of route segments flagged with a traffic issue",
		},
	)

	// Providers
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "werego_provider_requests_total",
			Help: "Total number of third-party provider calls by result",
		},
		[]string{"provider", "result"},
	)

	ProviderBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "werego_provider_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)
)

func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, endpoint, strconv.Itoa(status)).Observe(duration.Seconds())
}

func RecordSweep(deleted int64, err error) {
	if err != nil {
		SweepRuns.WithLabelValues("error").Inc()
		return
	}
	SweepRuns.WithLabelValues("success").Inc()
	SweepDeleted.Add(float64(deleted))
}

func RecordArchive(err error) {
	if err != nil {
		ReportsArchived.WithLabelValues("error").Inc()
		return
	}
	ReportsArchived.WithLabelValues("success").Inc()
}

func RecordCorrelation(duration time.Duration, congested int) {
	CorrelationDuration.Observe(duration.Seconds())
	CongestedSegments.Add(float64(congested))
}

func RecordProviderRequest(provider string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProviderRequests.WithLabelValues(provider, result).Inc()
}

// SetBreakerState records a circuit breaker state as 0, 1 or 2
func SetBreakerState(provider string, state int) {
	ProviderBreakerState.WithLabelValues(provider).Set(float64(state))
}

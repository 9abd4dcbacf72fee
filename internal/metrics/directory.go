package metrics

import "github.com/prometheus/client_golang/prometheus"

// Directory and booking metrics.
var (
	DirectoryQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindconnect",
			Name:      "directory_queries_total",
			Help:      "Directory queries by sort key",
		},
		[]string{"sort"},
	)

	DirectoryMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mindconnect",
			Name:      "directory_matches",
			Help:      "Number of profiles matching a directory query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	DirectorySessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mindconnect",
			Name:      "directory_sessions_active",
			Help:      "Open live directory sessions",
		},
	)

	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindconnect",
			Name:      "bookings_total",
			Help:      "Booking requests by delivery outcome",
		},
		[]string{"status"},
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindconnect",
			Name:      "analytics_events_total",
			Help:      "Recorded analytics events by type",
		},
		[]string{"event_type"},
	)
)

func init() {
	prometheus.MustRegister(DirectoryQueriesTotal)
	prometheus.MustRegister(DirectoryMatches)
	prometheus.MustRegister(DirectorySessionsActive)
	prometheus.MustRegister(BookingsTotal)
	prometheus.MustRegister(AnalyticsEventsTotal)
}

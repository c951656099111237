package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus collectors for the delivery backend
var (
	PingsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "location_pings_recorded_total",
			Help: "Total number of driver location pings stored",
		},
	)

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_status_transitions_total",
			Help: "Delivery status change requests by result",
		},
		[]string{"result"}, // delivered, already_delivered, rejected
	)

	FaceRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "face_registrations_total",
			Help: "Face registration attempts by result",
		},
		[]string{"result"}, // registered, duplicate, rejected
	)

	FaceVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "face_verifications_total",
			Help: "Recorded hand-off verifications by outcome",
		},
		[]string{"outcome"},
	)

	LiveFeedSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "location_feed_subscribers",
			Help: "Currently connected live location subscribers",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers all collectors with the default registry
func Register() {
	prometheus.MustRegister(
		PingsRecordedTotal,
		StatusTransitionsTotal,
		FaceRegistrationsTotal,
		FaceVerificationsTotal,
		LiveFeedSubscribers,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

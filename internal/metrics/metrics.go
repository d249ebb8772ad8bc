package metrics

import (
	"time"

	"campus-portal/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_filter_requests_total",
			Help: "Filter evaluations by date bucket",
		},
		[]string{"bucket"},
	)

	visibleEvents = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_filter_visible_events",
			Help:    "Number of visible event cards per filter evaluation",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Registration transitions by surface and resulting state",
		},
		[]string{"surface", "state"},
	)

	registrationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_registration_duration_seconds",
			Help:    "Time from click to registered",
			Buckets: prometheus.LinearBuckets(0.5, 0.5, 8),
		},
		[]string{"surface"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notifications_total",
			Help: "Notifications shown by severity",
		},
		[]string{"severity"},
	)

	activeNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_active_notifications",
			Help: "Notifications currently on screen",
		},
	)

	sseClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_sse_clients",
			Help: "Connected notification stream clients",
		},
	)
)

func TrackFilter(bucket string, visible int) {
	if bucket == "" {
		bucket = "none"
	}
	filterRequests.WithLabelValues(bucket).Inc()
	visibleEvents.Observe(float64(visible))
}

func TrackRegistration(surface, state string) {
	registrations.WithLabelValues(surface, state).Inc()
}

func TrackRegistrationDuration(surface string, d time.Duration) {
	registrationDuration.WithLabelValues(surface).Observe(d.Seconds())
}

// SeverityOther is the label for severities outside the fixed set.
const SeverityOther = "other"

// SeverityLabel keeps the severity label set bounded.
func SeverityLabel(severity string) string {
	switch severity {
	case models.SeveritySuccess, models.SeverityError, models.SeverityWarning, models.SeverityInfo:
		return severity
	}
	return SeverityOther
}

func TrackNotification(severity string, active int) {
	notifications.WithLabelValues(SeverityLabel(severity)).Inc()
	activeNotifications.Set(float64(active))
}

func SetActiveNotifications(active int) {
	activeNotifications.Set(float64(active))
}

func SetSSEClients(n int) {
	sseClients.Set(float64(n))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkease_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkease_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkease_checkins_total",
			Help: "Total number of successful check-ins",
		},
	)

	CheckInRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkease_checkin_rejections_total",
			Help: "Total number of rejected check-ins",
		},
		[]string{"reason"},
	)

	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkease_checkouts_total",
			Help: "Total number of check-outs",
		},
	)

	RevenueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkease_revenue_total",
			Help: "Total amount charged at check-out, in currency units",
		},
	)

	SubscriptionsSoldTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkease_subscriptions_sold_total",
			Help: "Total number of subscriptions sold or extended",
		},
		[]string{"kind"},
	)

	OccupiedSpaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parkease_occupied_spaces",
			Help: "Number of vehicles currently inside",
		},
	)

	AvailableSpaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parkease_available_spaces",
			Help: "Number of free spaces",
		},
	)

	CapacityAlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkease_capacity_alerts_total",
			Help: "Total number of low-capacity alerts emitted",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn() {
	CheckInsTotal.Inc()
}

func RecordCheckInRejection(reason string) {
	CheckInRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordCheckOut(amount int64) {
	CheckOutsTotal.Inc()
	RevenueTotal.Add(float64(amount))
}

func RecordSubscription(kind string) {
	SubscriptionsSoldTotal.WithLabelValues(kind).Inc()
}

func RecordCapacityAlert() {
	CapacityAlertsTotal.Inc()
}

func SetOccupancy(inside, available int) {
	OccupiedSpaces.Set(float64(inside))
	AvailableSpaces.Set(float64(available))
}

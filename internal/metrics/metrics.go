package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_store_operations_total",
			Help: "Spreadsheet store calls by operation and result",
		},
		[]string{"op", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheet_store_operation_duration_seconds",
			Help:    "Spreadsheet store call latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op"},
	)

	registrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of user registrations",
		},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	membershipUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_updates_total",
			Help: "Administrative membership changes by new tier",
		},
		[]string{"membership"},
	)
)

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func ObserveStore(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperationsTotal.WithLabelValues(op, result).Inc()
	storeOperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func RecordRegistration() {
	registrationsTotal.Inc()
}

func RecordLogin(success bool) {
	if success {
		loginsTotal.WithLabelValues("success").Inc()
		return
	}
	loginsTotal.WithLabelValues("failure").Inc()
}

func RecordMembershipUpdate(membership string) {
	membershipUpdatesTotal.WithLabelValues(membership).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

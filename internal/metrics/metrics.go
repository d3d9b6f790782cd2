// Package metrics exposes Prometheus counters for registry outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	UsersRegistered   prometheus.Counter
	Logins            *prometheus.CounterVec
	ResidentOps       *prometheus.CounterVec
	ResidentDurations *prometheus.HistogramVec
}

// New creates a Metrics instance backed by its own registry, including
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "wargakeeper_users_registered_total",
			Help: "Total number of users registered",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wargakeeper_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		ResidentOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wargakeeper_resident_operations_total",
			Help: "Resident registry operations by operation and result",
		}, []string{"operation", "result"}),
		ResidentDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wargakeeper_resident_operation_duration_seconds",
			Help:    "Duration of resident registry operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementUsersRegistered records a successful registration.
func (m *Metrics) IncrementUsersRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// ObserveLogin records a login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result(success)).Inc()
}

// ObserveResidentOp records the outcome and duration of a registry operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveResidentOp(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ResidentOps.WithLabelValues(operation, result(err == nil)).Inc()
	m.ResidentDurations.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

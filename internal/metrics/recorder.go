// Package metrics exports scheduler telemetry to Prometheus.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicpulse/helpdesk/pkg/periodic"
)

const namespace = "civicpulse"

// Outcome label values for civicpulse_sla_checks_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder turns periodic.Result values into Prometheus metrics.
// Observe is meant to be installed with periodic.WithHook.
type Recorder struct {
	registry    *prom.Registry
	checks      *prom.CounterVec
	duration    prom.Histogram
	consecutive prom.Gauge
	lastSuccess prom.Gauge
}

// NewRecorder creates a Recorder with its own registry.
// The registry also carries the Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		checks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sla_checks_total",
			Help:      "SLA escalation checks by outcome",
		}, []string{"outcome"}),
		duration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sla_check_duration_seconds",
			Help:      "Duration of SLA escalation checks",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		consecutive: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sla_check_consecutive_failures",
			Help:      "Failed SLA escalation checks since the last success",
		}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sla_check_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful SLA escalation check",
		}),
	}

	// Pre-create both series so dashboards see zeros before the first check.
	r.checks.WithLabelValues(OutcomeSuccess)
	r.checks.WithLabelValues(OutcomeFailure)

	r.registry.MustRegister(
		r.checks,
		r.duration,
		r.consecutive,
		r.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one invocation. Safe to call on a nil Recorder.
func (r *Recorder) Observe(res periodic.Result) {
	if r == nil {
		return
	}

	r.duration.Observe(res.Duration.Seconds())
	if res.Failed() {
		r.checks.WithLabelValues(OutcomeFailure).Inc()
		r.consecutive.Inc()
		return
	}
	r.checks.WithLabelValues(OutcomeSuccess).Inc()
	r.consecutive.Set(0)
	r.lastSuccess.Set(float64(res.FinishedAt().UnixNano()) / 1e9)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prom.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

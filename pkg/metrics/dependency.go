package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dependency labels for outbound calls.
const (
	DependencyCMS       = "cms"
	DependencyGemini    = "gemini"
	DependencyNominatim = "nominatim"
)

// DependencyMetrics tracks latency and outcome of calls to external services.
type DependencyMetrics struct {
	duration *prometheus.HistogramVec
}

// NewDependencyMetrics registers the outbound call histogram.
func NewDependencyMetrics(reg prometheus.Registerer) *DependencyMetrics {
	if reg == nil {
		return &DependencyMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "dependency_call_duration_seconds",
		Help:      "Duration of outbound dependency calls in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"dependency", "outcome"})
	reg.MustRegister(duration)
	return &DependencyMetrics{duration: duration}
}

// Observe records one call. A nil err is recorded as outcome "ok".
func (d *DependencyMetrics) Observe(dependency string, elapsed time.Duration, err error) {
	if d == nil || d.duration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.duration.WithLabelValues(normalizeLabel(dependency), outcome).Observe(elapsed.Seconds())
}

// Track is a convenience for `defer m.Track(dep, time.Now(), &err)`.
func (d *DependencyMetrics) Track(dependency string, start time.Time, err *error) {
	var callErr error
	if err != nil {
		callErr = *err
	}
	d.Observe(dependency, time.Since(start), callErr)
}

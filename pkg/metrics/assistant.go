package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assistant outcomes.
const (
	AssistantOutcomeQuoted      = "quoted"
	AssistantOutcomeNull        = "null"
	AssistantOutcomeError       = "error"
	AssistantOutcomeRateLimited = "rate_limited"
)

// AssistantMetrics counts how shipping-assistant requests resolved.
type AssistantMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	if reg == nil {
		return &AssistantMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "assistant_requests_total",
		Help:      "Shipping assistant requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(outcomes)
	return &AssistantMetrics{outcomes: outcomes}
}

func (a *AssistantMetrics) Inc(outcome string) {
	if a == nil || a.outcomes == nil {
		return
	}
	a.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "authz"

// PrometheusMetrics implementa ports.Metrics e expõe métricas HTTP
type PrometheusMetrics struct {
	DecisionsTotal      *prometheus.CounterVec
	GuardDenialsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics cria e registra as métricas no registry informado
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Authorization decisions by namespace and outcome",
			},
			[]string{"namespace", "outcome"},
		),
		GuardDenialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_denials_total",
				Help:      "Navigations denied by a guard",
			},
			[]string{"guard", "reason"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.DecisionsTotal, m.GuardDenialsTotal, m.HTTPRequestDuration)
	return m
}

func (m *PrometheusMetrics) ObserveDecision(namespace string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.DecisionsTotal.WithLabelValues(namespace, outcome).Inc()
}

func (m *PrometheusMetrics) ObserveGuardDenial(guard, reason string) {
	m.GuardDenialsTotal.WithLabelValues(guard, reason).Inc()
}

// ObserveRequest registra a duração de uma requisição HTTP
func (m *PrometheusMetrics) ObserveRequest(method, route, status string, seconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// NopMetrics descarta todas as observações
type NopMetrics struct{}

func (NopMetrics) ObserveDecision(string, bool)      {}
func (NopMetrics) ObserveGuardDenial(string, string) {}

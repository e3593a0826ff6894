// Package metrics — счётчики Prometheus демо на собственном реестре.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prom.Registry
	policies *prom.CounterVec
	exfil    *prom.CounterVec
	comments prom.Counter
}

// New регистрирует счётчики в отдельном реестре, чтобы тесты могли создавать несколько экземпляров
func New() *Metrics {
	reg := prom.NewRegistry()
	m := &Metrics{
		registry: reg,
		policies: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cspdemo",
			Name:      "policy_headers_total",
			Help:      "Responses served per CSP scenario.",
		}, []string{"scenario"}),
		exfil: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cspdemo",
			Name:      "exfil_entries_total",
			Help:      "Submissions captured by the simulated malicious endpoint.",
		}, []string{"kind"}),
		comments: prom.NewCounter(prom.CounterOpts{
			Namespace: "cspdemo",
			Name:      "comments_total",
			Help:      "Comments accepted by the demo board.",
		}),
	}
	reg.MustRegister(
		m.policies,
		m.exfil,
		m.comments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) PolicyServed(scenario string) {
	m.policies.WithLabelValues(scenario).Inc()
}

func (m *Metrics) ExfilReceived(kind string) {
	m.exfil.WithLabelValues(kind).Inc()
}

func (m *Metrics) CommentAdded() {
	m.comments.Inc()
}

// Gatherer — реестр демо, без глобального prometheus.DefaultGatherer
func (m *Metrics) Gatherer() prom.Gatherer {
	return m.registry
}

// Handler отдаёт метрики в текстовом формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})
}

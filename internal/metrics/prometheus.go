package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	buildDuration *prom.HistogramVec
	buildOutcome  *prom.CounterVec
	documents     *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "tinyssg",
			Name:      "build_duration_seconds",
			Help:      "Duration of complete pipeline runs",
			Buckets:   prom.DefBuckets,
		}, []string{"pipeline"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tinyssg",
			Name:      "build_outcomes_total",
			Help:      "Pipeline runs by final status",
		}, []string{"pipeline", "outcome"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tinyssg",
			Name:      "documents_written_total",
			Help:      "Output documents written",
		}, []string{"pipeline"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.documents)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(pipeline string, d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(pipeline).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(pipeline string, outcome Outcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(pipeline, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocuments(pipeline string) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(pipeline).Inc()
}

// HTTPHandler serves the metrics gathered by reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

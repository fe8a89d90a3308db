// Package metrics exposes Prometheus instrumentation for the HTTP surface and for the
// calls made to the hosted model.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_auditor"

// LLM operations.
const (
	OpAnalyze = "analyze"
	OpImprove = "improve"
	OpMatch   = "match"
)

var (
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Model calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Model call latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"operation"},
	)

	sectionRewritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewrite",
			Name:      "sections_total",
			Help:      "Sections processed by batch rewrites, by outcome.",
		},
		[]string{"outcome"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "Exported documents by format.",
		},
		[]string{"format"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveLLMCall records one model call that started at start.
func ObserveLLMCall(operation string, start time.Time, err error) {
	llmCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	llmCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordSectionRewrite counts one item of a batch rewrite.
func RecordSectionRewrite(err error) {
	sectionRewritesTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordExport counts one exported document.
func RecordExport(format string) {
	exportsTotal.WithLabelValues(format).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

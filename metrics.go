package goptxcompiler

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	compilations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ptxcompiler",
		Name:      "compilations_total",
		Help:      "Total PTX compilations with the static compiler, grouped by status.",
	}, []string{"status"})

	compileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ptxcompiler",
		Name:      "compile_duration_seconds",
		Help:      "Duration of PTX compilations with the static compiler.",
		Buckets:   prometheus.DefBuckets,
	})

	compiledBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ptxcompiler",
		Name:      "compiled_program_bytes_total",
		Help:      "Total size of the compiled programs.",
	})

	patchDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ptxcompiler",
		Name:      "patch_decisions_total",
		Help:      "Decisions on whether the codegen patch is needed.",
	}, []string{"decision"})

	patchApplied = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ptxcompiler",
		Name:      "patch_applied",
		Help:      "1 if the codegen patch was applied in this process.",
	})

	registry = newRegistry()
)

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(compilations, compileDuration, compiledBytes, patchDecisions, patchApplied)
	return r
}

// Metrics returns the registry with the package metrics. It is not the global prometheus registry:
// programs serving metrics should add it to their gatherers.
func Metrics() prometheus.Gatherer {
	return registry
}

// WriteMetrics writes the current metrics in the Prometheus text format to the given file,
// e.g. for the node-exporter textfile collector.
func WriteMetrics(filename string) error {
	if err := prometheus.WriteToTextfile(filename, registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %q", filename)
	}
	return nil
}

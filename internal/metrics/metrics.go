package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RunsTotal counts orchestrator runs by outcome (ok, degraded, error).
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "outreach",
		Subsystem: "report",
		Name:      "runs_total",
		Help:      "Total orchestrator runs, labeled by outcome.",
	}, []string{"result"})

	// RunDurationSeconds is end-to-end time per run, including sink delivery.
	RunDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "outreach",
		Subsystem: "report",
		Name:      "run_duration_seconds",
		Help:      "End-to-end time to run the daily report.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	// CommandsTotal counts slash-command invocations by verb and result.
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "outreach",
		Subsystem: "report",
		Name:      "commands_total",
		Help:      "Total manual-count commands processed, labeled by verb and result.",
	}, []string{"verb", "result"})

	// SinkFailuresTotal counts failed deliveries per sink.
	SinkFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "outreach",
		Subsystem: "report",
		Name:      "sink_failures_total",
		Help:      "Total failed report deliveries, labeled by sink.",
	}, []string{"sink"})
)

// Register installs the collectors on the default registry. Safe to call more
// than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			RunDurationSeconds,
			CommandsTotal,
			SinkFailuresTotal,
		)
	})
}

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crimson-sun/canlog/internal/model"
)

var (
	registerOnce sync.Once

	linesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canlog",
			Subsystem: "pipeline",
			Name:      "lines_total",
			Help:      "Log lines consumed.",
		},
		[]string{"machine"},
	)
	recordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canlog",
			Subsystem: "pipeline",
			Name:      "records_total",
			Help:      "Records produced, by lift side and variant.",
		},
		[]string{"machine", "side", "variant"},
	)
	diagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canlog",
			Subsystem: "pipeline",
			Name:      "diagnostics_total",
			Help:      "Diagnostics raised, by stage and kind.",
		},
		[]string{"machine", "stage", "kind"},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "canlog",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a batch decode.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"machine", "mode"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canlog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "canlog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register adds the collectors to the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(linesTotal, recordsTotal, diagnosticsTotal, runDuration, httpRequests, httpDuration)
	})
}

func RecordLines(machine model.MachineClass, n int) {
	Register()
	linesTotal.WithLabelValues(machine.String()).Add(float64(n))
}

func RecordRecord(machine model.MachineClass, rec model.Record) {
	Register()
	recordsTotal.WithLabelValues(machine.String(), string(rec.Side), variantLabel(rec.Variant())).Inc()
}

func RecordDiagnostic(machine model.MachineClass, d model.Diagnostic) {
	Register()
	diagnosticsTotal.WithLabelValues(machine.String(), string(d.Stage), string(d.Kind)).Inc()
}

// RecordRun observes one batch decode. mode is "serial" or "parallel".
func RecordRun(machine model.MachineClass, mode string, d time.Duration) {
	Register()
	runDuration.WithLabelValues(machine.String(), mode).Observe(d.Seconds())
}

func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	Register()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(d.Seconds())
}

func variantLabel(v model.Variant) string {
	if v == model.VariantTelemetry {
		return "telemetry"
	}
	return "resolved"
}

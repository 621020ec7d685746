package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Import metrics
	ImportsTotal      *prometheus.CounterVec
	ImportDuration    *prometheus.HistogramVec
	ImportsInProgress prometheus.Gauge
	RowsAccepted      *prometheus.CounterVec
	RowsRejected      *prometheus.CounterVec

	// Shell session metrics
	ShellsBuilt  prometheus.Counter
	ShellEdits   *prometheus.CounterVec
	ShellsStored prometheus.Gauge

	// Export sink metrics
	SinkCalls    *prometheus.CounterVec
	SinkDuration *prometheus.HistogramVec
	SinkFailures *prometheus.CounterVec
	RowsExported prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chart_imports_total",
				Help: "Total number of blocking chart imports",
			},
			[]string{"status", "source"},
		),

		ImportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chart_import_duration_seconds",
				Help:    "Blocking chart import duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"source"},
		),

		ImportsInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chart_imports_in_progress",
				Help: "Number of imports currently being parsed",
			},
		),

		RowsAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chart_rows_accepted_total",
				Help: "Total number of rows accepted as campaign lines",
			},
			[]string{"source", "category"},
		),

		RowsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chart_rows_rejected_total",
				Help: "Total number of rows skipped during import",
			},
			[]string{"source", "reason"},
		),

		ShellsBuilt: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "campaign_shells_built_total",
				Help: "Total number of campaign shells built from rows",
			},
		),

		ShellEdits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_shell_edits_total",
				Help: "Total number of edits applied to campaign shells",
			},
			[]string{"operation"},
		),

		ShellsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "campaign_shells_stored",
				Help: "Number of campaign shells in the current session",
			},
		),

		SinkCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_sink_calls_total",
				Help: "Total number of export sink calls",
			},
			[]string{"status"},
		),

		SinkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "export_sink_duration_seconds",
				Help:    "Export sink call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		SinkFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_sink_failures_total",
				Help: "Total number of export sink failures",
			},
			[]string{"error_type"},
		),

		RowsExported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "export_rows_total",
				Help: "Total number of flattened rows sent to the sink",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordImport(status, source string, duration time.Duration) {
	m.ImportsTotal.WithLabelValues(status, source).Inc()
	m.ImportDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) RecordRowAccepted(source, category string) {
	m.RowsAccepted.WithLabelValues(source, category).Inc()
}

func (m *Metrics) RecordRowRejected(source, reason string) {
	m.RowsRejected.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) RecordShellsBuilt(count int) {
	m.ShellsBuilt.Add(float64(count))
}

func (m *Metrics) RecordShellEdit(operation string) {
	m.ShellEdits.WithLabelValues(operation).Inc()
}

func (m *Metrics) SetShellsStored(count int) {
	m.ShellsStored.Set(float64(count))
}

// Export sink call metrics
func (m *Metrics) RecordSinkCall(status string, duration time.Duration) {
	m.SinkCalls.WithLabelValues(status).Inc()
	m.SinkDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) RecordSinkFailure(errorType string) {
	m.SinkFailures.WithLabelValues(errorType).Inc()
}

func (m *Metrics) RecordRowsExported(count int) {
	m.RowsExported.Add(float64(count))
}

func (m *Metrics) IncImportsInProgress() {
	m.ImportsInProgress.Inc()
}

func (m *Metrics) DecImportsInProgress() {
	m.ImportsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

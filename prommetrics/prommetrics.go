package prommetrics

import (
	"time"

	"github.com/hupe1980/vecwire"
	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time check.
var (
	_ vecwire.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector     = (*Collector)(nil)
)

// Collector records codec and bulk writer metrics as Prometheus series.
// Register it with a prometheus.Registerer before use.
type Collector struct {
	latency    *prometheus.HistogramVec
	operations *prometheus.CounterVec
	rows       *prometheus.CounterVec
	flushBytes prometheus.Counter
}

// Option configures a Collector.
type Option func(*config)

type config struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
}

// WithNamespace sets the metric namespace. Default: "vecwire".
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithConstLabels attaches fixed labels (e.g. the collection name) to every series.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		c.constLabels = labels
	}
}

// WithBuckets overrides the latency histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// New creates a Collector.
func New(optFns ...Option) *Collector {
	cfg := config{
		namespace: "vecwire",
		buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}
	for _, fn := range optFns {
		fn(&cfg)
	}

	return &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Name:        "operation_duration_seconds",
			Help:        "Latency of encode, decode and flush operations",
			Buckets:     cfg.buckets,
			ConstLabels: cfg.constLabels,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Name:        "operations_total",
			Help:        "Total operations by outcome",
			ConstLabels: cfg.constLabels,
		}, []string{"op", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Name:        "rows_total",
			Help:        "Rows processed by successful operations",
			ConstLabels: cfg.constLabels,
		}, []string{"op"}),
		flushBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Name:        "flush_bytes_total",
			Help:        "Bytes uploaded in bulk import files",
			ConstLabels: cfg.constLabels,
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.latency.Describe(ch)
	c.operations.Describe(ch)
	c.rows.Describe(ch)
	c.flushBytes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.latency.Collect(ch)
	c.operations.Collect(ch)
	c.rows.Collect(ch)
	c.flushBytes.Collect(ch)
}

// RecordEncode implements vecwire.MetricsCollector.
func (c *Collector) RecordEncode(rows int, duration time.Duration, err error) {
	c.record("encode", rows, duration, err)
}

// RecordDecode implements vecwire.MetricsCollector.
func (c *Collector) RecordDecode(rows int, duration time.Duration, err error) {
	c.record("decode", rows, duration, err)
}

// RecordFlush implements vecwire.MetricsCollector.
func (c *Collector) RecordFlush(rows, bytes int, duration time.Duration, err error) {
	c.record("flush", rows, duration, err)
	if err == nil {
		c.flushBytes.Add(float64(bytes))
	}
}

func (c *Collector) record(op string, rows int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.latency.WithLabelValues(op, status).Observe(duration.Seconds())
	c.operations.WithLabelValues(op, status).Inc()
	if err == nil {
		c.rows.WithLabelValues(op).Add(float64(rows))
	}
}

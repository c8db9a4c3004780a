// Package prommetrics exports vecwire metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc := prommetrics.New(prommetrics.WithConstLabels(prometheus.Labels{"collection": "docs"}))
//	reg.MustRegister(mc)
//
//	c := vecwire.New(vecwire.WithMetricsCollector(mc))
//	w, err := bulkwriter.New(s, store, bulkwriter.WithMetricsCollector(mc))
//
// Series (namespace "vecwire" by default):
//
//	vecwire_operation_duration_seconds{op,status}  histogram
//	vecwire_operations_total{op,status}            counter
//	vecwire_rows_total{op}                         counter
//	vecwire_flush_bytes_total                      counter
package prommetrics

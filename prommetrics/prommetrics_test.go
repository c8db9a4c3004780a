package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/vecwire"
	"github.com/hupe1980/vecwire/schema"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func labelsOf(m *dto.Metric) map[string]string {
	out := make(map[string]string)
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range mf.GetMetric() {
		got := labelsOf(m)
		match := true
		for k, v := range labels {
			if got[k] != v {
				match = false
				break
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithConstLabels(prometheus.Labels{"collection": "docs"}))
	require.NoError(t, reg.Register(c))

	c.RecordEncode(10, time.Millisecond, nil)
	c.RecordEncode(5, time.Millisecond, errors.New("bad row"))
	c.RecordDecode(3, time.Microsecond, nil)
	c.RecordFlush(10, 2048, time.Second, nil)

	families := gather(t, reg)

	ops := families["vecwire_operations_total"]
	require.NotNil(t, ops)
	assert.Equal(t, float64(1), counterValue(ops, map[string]string{"op": "encode", "status": "success"}))
	assert.Equal(t, float64(1), counterValue(ops, map[string]string{"op": "encode", "status": "error"}))

	rows := families["vecwire_rows_total"]
	require.NotNil(t, rows)
	assert.Equal(t, float64(10), counterValue(rows, map[string]string{"op": "encode"}), "failed operations add no rows")
	assert.Equal(t, float64(3), counterValue(rows, map[string]string{"op": "decode"}))
	assert.Equal(t, "docs", labelsOf(rows.GetMetric()[0])["collection"])

	bytes := families["vecwire_flush_bytes_total"]
	require.NotNil(t, bytes)
	assert.Equal(t, float64(2048), bytes.GetMetric()[0].GetCounter().GetValue())

	latency := families["vecwire_operation_duration_seconds"]
	require.NotNil(t, latency)
	assert.Equal(t, dto.MetricType_HISTOGRAM, latency.GetType())
}

func TestCollectorWithCodec(t *testing.T) {
	reg := prometheus.NewRegistry()
	mc := New(WithNamespace("test"))
	reg.MustRegister(mc)

	codec := vecwire.New(vecwire.WithMetricsCollector(mc))
	s := schema.New(schema.NewField("id", schema.Int64, schema.AsPrimaryKey()))

	_, err := codec.Encode(context.Background(), s, []map[string]any{{"id": 1}, {"id": 2}})
	require.NoError(t, err)

	families := gather(t, reg)
	assert.Equal(t, float64(2), counterValue(families["test_rows_total"], map[string]string{"op": "encode"}))
}

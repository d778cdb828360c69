package auth

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Run("registers a counter on first use and accumulates", func(t *testing.T) {
		registry := prometheus.NewPedanticRegistry()
		metrics := NewPrometheusMetrics(registry)

		metrics.IncCounter("auth_rejections_total", map[string]string{"kind": "expired"})
		metrics.IncCounter("auth_rejections_total", map[string]string{"kind": "expired"})
		metrics.IncCounter("auth_rejections_total", map[string]string{"kind": "signature_invalid"})

		families, err := registry.Gather()
		require.NoError(t, err)
		require.Len(t, families, 1)
		assert.Equal(t, "auth_rejections_total", families[0].GetName())

		byKind := map[string]float64{}
		for _, metric := range families[0].GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "kind" {
					byKind[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
		assert.Equal(t, 2.0, byKind["expired"])
		assert.Equal(t, 1.0, byKind["signature_invalid"])
	})

	t.Run("records histogram observations", func(t *testing.T) {
		registry := prometheus.NewPedanticRegistry()
		metrics := NewPrometheusMetrics(registry)

		metrics.ObserveHistogram("auth_validate_seconds", 0.005, nil)
		metrics.ObserveHistogram("auth_validate_seconds", 0.020, nil)

		families, err := registry.Gather()
		require.NoError(t, err)
		require.Len(t, families, 1)
		require.Len(t, families[0].GetMetric(), 1)
		assert.EqualValues(t, 2, families[0].GetMetric()[0].GetHistogram().GetSampleCount())
	})

	t.Run("concurrent first use registers once", func(t *testing.T) {
		registry := prometheus.NewPedanticRegistry()
		metrics := NewPrometheusMetrics(registry)

		done := make(chan struct{})
		for i := 0; i < 8; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				metrics.IncCounter("auth_success_total", nil)
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}

		families, err := registry.Gather()
		require.NoError(t, err)
		require.Len(t, families, 1)
		assert.Equal(t, 8.0, families[0].GetMetric()[0].GetCounter().GetValue())
	})

	t.Run("falls back to the default registerer", func(t *testing.T) {
		metrics := NewPrometheusMetrics(nil)
		assert.NotNil(t, metrics.registerer)
	})
}

func TestNoopMetrics(t *testing.T) {
	var metrics Metrics = &NoopMetrics{}
	assert.NotPanics(t, func() {
		metrics.IncCounter("anything", map[string]string{"k": "v"})
		metrics.ObserveHistogram("anything", 1.0, nil)
	})
}

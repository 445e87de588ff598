// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherValue walks the gathered families for the metric carrying the given
// labels, returning its counter value or histogram sample count.
func gatherValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metric
				}
			}
			if m.GetHistogram() != nil {
				return float64(m.GetHistogram().GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func TestRecordDecision(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordDecision("allowed", "route-1", "GET", 25*time.Millisecond)
	m.RecordDecision("allowed", "route-1", "GET", time.Millisecond)
	m.RecordDecision("denied", "route-1", "GET", 5*time.Millisecond)

	allowed := gatherValue(t, registry, RequestsTotalMetric,
		map[string]string{"result": "allowed", "route_pattern": "route-1", "method": "GET"})
	assert.Equal(t, 2.0, allowed)

	denied := gatherValue(t, registry, RequestsTotalMetric,
		map[string]string{"result": "denied", "route_pattern": "route-1", "method": "GET"})
	assert.Equal(t, 1.0, denied)

	observations := gatherValue(t, registry, DurationMetric,
		map[string]string{"route_pattern": "route-1", "method": "GET"})
	assert.Equal(t, 3.0, observations)
}

func TestRecordError(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordError("timeout")
	m.RecordError("timeout")
	m.RecordError("repository_error")

	timeouts := gatherValue(t, registry, ErrorsTotalMetric, map[string]string{"error_type": "timeout"})
	assert.Equal(t, 2.0, timeouts)

	repo := gatherValue(t, registry, ErrorsTotalMetric, map[string]string{"error_type": "repository_error"})
	assert.Equal(t, 1.0, repo)
}

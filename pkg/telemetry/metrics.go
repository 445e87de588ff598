// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package telemetry exposes Prometheus metrics for the authorization
// decision path.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names, exported for tests and dashboards.
const (
	RequestsTotalMetric = "auth_requests_total"
	DurationMetric      = "auth_duration_seconds"
	ErrorsTotalMetric   = "auth_errors_total"
)

// Metrics records authorization outcomes for Prometheus scraping.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
}

// NewMetrics creates the decision metrics and registers them with the
// supplied registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: RequestsTotalMetric,
				Help: "Total number of authorization requests by result",
			},
			[]string{"result", "route_pattern", "method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    DurationMetric,
				Help:    "Authorization decision latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"route_pattern", "method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: ErrorsTotalMetric,
				Help: "Total number of authorization requests that failed internally",
			},
			[]string{"error_type"},
		),
	}
	m.register(registry)
	return &m
}

// register registers the Metrics with the supplied registry.
func (m *Metrics) register(registry *prometheus.Registry) {
	registry.MustRegister(
		m.requestsTotal,
		m.duration,
		m.errorsTotal,
	)
}

// RecordDecision counts one decision and observes its latency. The route
// label should be the matched route ID when one exists, keeping cardinality
// bounded by configuration rather than by traffic.
func (m *Metrics) RecordDecision(result, route, method string, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(result, route, method).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordError counts an internal failure by its error type.
func (m *Metrics) RecordError(errorType string) {
	m.errorsTotal.WithLabelValues(errorType).Inc()
}

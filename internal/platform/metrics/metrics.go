// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics collects and exposes Prometheus metrics for the identity flows.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by callers that record results.
const (
	OutcomeOK = "ok"
)

// Collector is the Prometheus-backed implementation used in production.
type Collector struct {
	authRequests  *prometheus.CounterVec
	authLatency   *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	subscriptions prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stories_auth_requests_total",
			Help: "Identity provider operations by operation and outcome kind.",
		}, []string{"op", "kind"}),
		authLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stories_auth_request_duration_seconds",
			Help:    "Latency of identity provider operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stories_session_cache_lookups_total",
			Help: "Session cache lookups by result.",
		}, []string{"result"}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stories_session_subscriptions",
			Help: "Live session subscriptions held by this instance.",
		}),
	}

	reg.MustRegister(
		c.authRequests,
		c.authLatency,
		c.cacheLookups,
		c.subscriptions,
	)

	return c
}

// RecordAuthRequest counts one provider operation and observes its latency.
func (c *Collector) RecordAuthRequest(op, kind string, duration time.Duration) {
	c.authRequests.WithLabelValues(op, kind).Inc()
	c.authLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordCacheLookup counts a session cache hit or miss.
func (c *Collector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// AddSubscriptions moves the live subscription gauge by delta.
func (c *Collector) AddSubscriptions(delta int) {
	c.subscriptions.Add(float64(delta))
}

// Nop discards every observation. It is used when METRICS_ENABLED is false and in tests.
type Nop struct{}

func (Nop) RecordAuthRequest(string, string, time.Duration) {}
func (Nop) RecordCacheLookup(bool)                          {}
func (Nop) AddSubscriptions(int)                            {}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics collects Prometheus metrics for the shelter API and exposes
// the scrape endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of [Collector] that services depend on.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordRoleUpdate(outcome string)
	RecordRoleTransition(from, to string)
	RecordBioGeneration(outcome string)
}

// Role update outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeDenied      = "denied"
	OutcomeClaimsStale = "claims_stale"
	OutcomeError       = "error"
	OutcomeFallback    = "fallback"
)

// Collector registers and records the service metrics.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	roleUpdates     *prometheus.CounterVec
	roleTransitions *prometheus.CounterVec
	bioGenerations  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelter_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		roleUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_role_updates_total",
			Help: "Role update attempts by outcome",
		}, []string{"outcome"}),
		roleTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_role_transitions_total",
			Help: "Role transitions observed by live sessions",
		}, []string{"from", "to"}),
		bioGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_bio_generations_total",
			Help: "AI text generations by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.roleUpdates,
		c.roleTransitions,
		c.bioGenerations,
	)

	return c
}

// RecordHTTPRequest records one finished HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRoleUpdate records the outcome of a role update call.
func (c *Collector) RecordRoleUpdate(outcome string) {
	c.roleUpdates.WithLabelValues(outcome).Inc()
}

// RecordRoleTransition records a role change seen by a live session.
func (c *Collector) RecordRoleTransition(from, to string) {
	c.roleTransitions.WithLabelValues(from, to).Inc()
}

// RecordBioGeneration records whether generated text was used or a fallback.
func (c *Collector) RecordBioGeneration(outcome string) {
	c.bioGenerations.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement. Used where metrics are optional.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordRoleUpdate(string)                              {}
func (Nop) RecordRoleTransition(string, string)                  {}
func (Nop) RecordBioGeneration(string)                           {}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics holds the Prometheus collectors for publish, fetch and
// bucket provisioning. Collectors are registered on Registry rather than the
// default registerer so a CLI run can dump exactly these series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zapstore"

// Result label values
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultExists  = "exists"
)

// Registry holds every zapstore collector
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// PublishTotal counts publish operations
	PublishTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "total",
			Help:      "Publish operations by kind, visibility and result",
		},
		[]string{"kind", "visibility", "result"}, // kind: file, directory
	)

	// PublishBytes counts uploaded payload bytes
	PublishBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "bytes_total",
			Help:      "Bytes uploaded by successful publishes",
		},
		[]string{"kind"},
	)

	// PublishDuration tracks time spent in publish
	PublishDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "duration_seconds",
			Help:      "Time spent publishing an artifact",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// FetchTotal counts fetch operations
	FetchTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Fetch operations by kind, visibility and result",
		},
		[]string{"kind", "visibility", "result"},
	)

	// FetchBytes counts downloaded bytes
	FetchBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "bytes_total",
			Help:      "Bytes downloaded by successful fetches",
		},
		[]string{"kind"},
	)

	// FetchDuration tracks time spent in fetch
	FetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching an artifact",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// BucketsCreatedTotal counts buckets created by this process
	BucketsCreatedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bucket",
			Name:      "created_total",
			Help:      "Buckets created, by visibility",
		},
		[]string{"visibility"},
	)
)

// RecordPublish records the outcome of a publish
func RecordPublish(kind, visibility, result string, bytes int64, seconds float64) {
	PublishTotal.WithLabelValues(kind, visibility, result).Inc()
	PublishDuration.WithLabelValues(kind).Observe(seconds)
	if result == ResultSuccess {
		PublishBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// RecordFetch records the outcome of a fetch
func RecordFetch(kind, visibility, result string, bytes int64, seconds float64) {
	FetchTotal.WithLabelValues(kind, visibility, result).Inc()
	FetchDuration.WithLabelValues(kind).Observe(seconds)
	if result == ResultSuccess {
		FetchBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// WriteTextfile writes the current values of Registry to path in the
// node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

// Package clustermetrics is the counter/gauge surface described in
// SPEC_FULL.md §4.7: chunk and frame counters, retry-exhaustion counters,
// and in-flight gauges, behind a small interface so tests can substitute
// a no-op implementation. NewPrometheus registers everything under a
// single Prometheus namespace per cluster instance; a Cluster uses NoOp
// unless a Recorder is supplied through udpcluster.WithMetrics.
package clustermetrics

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package metrics provides Prometheus instrumentation for pipeline runs:
// rows processed per source, integrity-gate removals, cold-start
// imputations, stage durations and the final evaluation scores. Metrics
// accumulate in the default registry; batch deployments scrape them via
// the textfile collector or a push gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurelens_rows_loaded_total",
			Help: "Raw rows loaded per entity source before filtering",
		},
		[]string{"entity", "format"},
	)

	RowsDroppedMissing = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurelens_rows_dropped_missing_total",
			Help: "Rows removed by the integrity gate for missing cells",
		},
		[]string{"entity"},
	)

	DuplicateRowsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurelens_duplicate_rows_removed_total",
			Help: "Exact-duplicate rows removed by the integrity gate",
		},
		[]string{"entity"},
	)

	ColdStartImputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurelens_cold_start_imputations_total",
			Help: "Unresolved aggregate cells filled by the cold-start imputer",
		},
		[]string{"column"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "featurelens_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	EvaluationRMSE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "featurelens_evaluation_rmse",
			Help: "RMSE of the last completed evaluation",
		},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurelens_pipeline_runs_total",
			Help: "Completed pipeline runs by outcome",
		},
		[]string{"outcome"}, // "success" or "failure"
	)
)

// ObserveStage records the duration of a stage that started at the given
// time. Intended for defer:
//
//	defer metrics.ObserveStage("aggregate", time.Now())
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

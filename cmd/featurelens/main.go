// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package main is the entry point for the FeatureLens batch pipeline.
//
// FeatureLens turns raw movie-ratings sources into leakage-safe feature
// tables for a ratings-prediction model and evaluates the fitted model
// against a differently formatted holdout dataset.
//
// # Pipeline Stages
//
// One invocation performs one run, in order:
//
//  1. Configuration: load settings from a YAML file and environment
//     variables (Koanf v2)
//  2. Load: read movies, ratings, tags and links from CSV files or a
//     DuckDB database
//  3. Filter: drop rows with missing cells, then exact duplicates; persist
//     the cleaned tables as CSV
//  4. Split: deterministic seeded train/test partition of the ratings
//  5. Aggregate: per-movie and per-user statistics from the train
//     partition only, frozen before any join
//  6. Join: merge aggregates and calendar features into the train, test
//     and holdout tables; impute cold-start cells
//  7. Validate: enforce the train/score schema contract
//  8. Fit and predict with the configured regressor
//  9. Evaluate MSE/RMSE and persist the model, the feature tables and a
//     JSON run report
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the FEATURELENS_ prefix
//     (FEATURELENS_SPLIT_SEED, FEATURELENS_DATA_FORMAT, ...)
//   - Config file (featurelens.yaml, or FEATURELENS_CONFIG)
//   - Built-in defaults
//
// # Example Usage
//
// CSV sources with the default layout under data/:
//
//	export FEATURELENS_SPLIT_SEED=42
//	./featurelens
//
// DuckDB-backed sources:
//
//	export FEATURELENS_DATA_FORMAT=duckdb
//	export FEATURELENS_DATA_DATABASE_PATH=data/movielens.duckdb
//	./featurelens
//
// The process exits non-zero if any stage fails; partial outputs from
// later stages are never written.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tfoster-dev/featurelens/internal/config"
	"github.com/tfoster-dev/featurelens/internal/logging"
	"github.com/tfoster-dev/featurelens/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("format", cfg.Data.Format).
		Str("model", cfg.Model.Name).
		Float64("test_fraction", cfg.Split.TestFraction).
		Int64("seed", cfg.Split.Seed).
		Msg("Starting FeatureLens")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := pipeline.New(cfg, nil).Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Pipeline run failed")
		os.Exit(1)
	}

	logging.Info().
		Str("run_id", stats.RunID).
		Dur("duration", stats.Duration()).
		Float64("test_rmse", stats.TestRMSE).
		Float64("holdout_rmse", stats.HoldoutRMSE).
		Str("report", cfg.Output.ReportPath).
		Msg("FeatureLens run complete")
}

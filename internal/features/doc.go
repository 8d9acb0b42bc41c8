// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package features computes per-entity aggregate features and merges them
// into feature tables for both the training and scoring paths.
//
// The central correctness property lives here: aggregate statistics (mean
// rating per movie, mean rating and rating count per user) are computed
// from the training ratings partition only, frozen in an AggregateSet, and
// then joined into both the training table and the differently-sourced
// holdout table. Rebuilding or replacing a registered index is refused, so
// a later stage cannot accidentally recompute an aggregate from data that
// includes held-out rows.
//
// Entities unseen at aggregate time receive an unresolved marker (a masked
// NaN cell) from Join; Impute resolves the markers with the mean of the
// resolved values in the same column, and refuses to proceed when every
// value is unresolved.
//
// Temporal features (calendar year, month-of-year) are derived with a fixed
// UTC conversion so both paths produce identical values for identical
// timestamps, and release-year extraction from titles goes through the one
// shared ExtractYear routine on both paths.
package features

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package table implements the Entity Table, the common currency between
// all pipeline stages: an ordered sequence of named, homogeneously typed
// columns with a shared row count and an explicit per-cell missing mask.
//
// # Column Types
//
//   - Numeric: float64 values (IDs, ratings, derived statistics)
//   - Text: string values (titles, genres, tags, external identifiers)
//   - Timestamp: Unix epoch seconds
//
// # Missing Values
//
// Missing cells are tracked in a boolean mask per column, never encoded as
// magic numbers. Numeric cells additionally hold NaN while masked so that a
// missed mask check cannot silently produce a plausible value.
//
// # Integrity Gate
//
// Filter enforces the row-level integrity invariants every raw source must
// pass before feature computation: rows containing any missing cell are
// dropped whole (no per-column imputation at this stage), then exact
// duplicate rows are removed preserving first-seen order. The returned
// FilterReport carries per-column missing counts and the duplicate count
// for observability.
package table

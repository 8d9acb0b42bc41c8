// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package model defines the opaque model boundary the feature pipeline
// feeds. The pipeline only depends on the Regressor interface, so its
// correctness tests can substitute a deterministic stub and stay decoupled
// from any statistical behavior.
package model

import (
	"context"
	"errors"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// ErrNotFitted is returned by Predict before a successful Fit.
var ErrNotFitted = errors.New("model has not been fitted")

// Regressor is the opaque model capability: fit on a validated feature
// table, then predict a vector aligned to the input's row order.
type Regressor interface {
	// Fit trains on the feature table using targetColumn as the label.
	Fit(ctx context.Context, t *table.Table, targetColumn string) error

	// Predict returns one prediction per input row, in row order.
	Predict(ctx context.Context, t *table.Table) ([]float64, error)
}

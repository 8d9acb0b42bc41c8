// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package evaluate reduces an actual/predicted vector pair to MSE and RMSE.
//
// Pairs where either member is NaN (the missing marker for numeric
// vectors) are skipped; the mean runs over present pairs only, never
// zero-filled.
package evaluate

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyInput is returned when no valid pairs remain after skipping
// missing entries.
var ErrEmptyInput = errors.New("evaluation input has no valid pairs")

// MSE returns the mean squared error between the index-aligned actual and
// predicted vectors. The vectors must have equal length; pairs with a NaN
// member are excluded from the mean.
func MSE(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("length mismatch: actual has %d values, predicted has %d", len(actual), len(predicted))
	}
	sum := 0.0
	n := 0
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		d := predicted[i] - actual[i]
		sum += d * d
		n++
	}
	if n == 0 {
		return 0, ErrEmptyInput
	}
	return sum / float64(n), nil
}

// RMSE returns the square root of MSE over the same pair-skipping policy.
func RMSE(actual, predicted []float64) (float64, error) {
	mse, err := MSE(actual, predicted)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package model

import (
	"context"
	"fmt"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// Stub is a deterministic regressor for pipeline tests: it memorizes the
// training target's mean and predicts it for every row. Feature values
// never influence the output, which makes feature-pipeline assertions
// independent of any model behavior.
type Stub struct {
	// Mean is the memorized training target mean.
	Mean float64

	fitted bool
}

// Fit memorizes the mean of the target column.
func (s *Stub) Fit(_ context.Context, t *table.Table, targetColumn string) error {
	target, err := t.Column(targetColumn)
	if err != nil {
		return fmt.Errorf("stub fit: %w", err)
	}
	if target.Type != table.Numeric || target.Len() == 0 {
		return fmt.Errorf("stub fit: target %q must be a non-empty numeric column", targetColumn)
	}
	sum := 0.0
	for _, v := range target.Floats {
		sum += v
	}
	s.Mean = sum / float64(target.Len())
	s.fitted = true
	return nil
}

// Predict returns the memorized mean for every row.
func (s *Stub) Predict(_ context.Context, t *table.Table) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, t.NumRows())
	for i := range out {
		out[i] = s.Mean
	}
	return out, nil
}

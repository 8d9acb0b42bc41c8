// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"errors"
	"fmt"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// ErrImputationImpossible is returned when every value in the target column
// is unresolved, leaving no basis for a replacement mean. Substituting zero
// here would feed a fabricated statistic to the model, so the pipeline
// halts instead.
var ErrImputationImpossible = errors.New("imputation impossible: no resolved values in column")

// Impute replaces every unresolved marker in the named column with the
// arithmetic mean of the column's resolved values, computed within the same
// table. This is a documented simplification: the replacement is the mean
// of the current table's resolved values, not the training-set mean.
//
// Returns the new table and the number of cells imputed. No marker survives
// a successful call.
func Impute(t *table.Table, column string) (*table.Table, int, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, 0, fmt.Errorf("impute: %w", err)
	}
	if col.Type != table.Numeric {
		return nil, 0, fmt.Errorf("impute: column %q is %s, want numeric", column, col.Type)
	}

	sum := 0.0
	resolved := 0
	for row := 0; row < col.Len(); row++ {
		if !col.Missing[row] {
			sum += col.Floats[row]
			resolved++
		}
	}
	unresolved := col.Len() - resolved
	if unresolved == 0 {
		return t.Clone(), 0, nil
	}
	if resolved == 0 {
		return nil, 0, fmt.Errorf("impute column %q: %w", column, ErrImputationImpossible)
	}

	mean := sum / float64(resolved)
	out := t.Clone()
	outCol, err := out.Column(column)
	if err != nil {
		return nil, 0, fmt.Errorf("impute: %w", err)
	}
	for row := 0; row < outCol.Len(); row++ {
		if outCol.Missing[row] {
			outCol.Floats[row] = mean
			outCol.Missing[row] = false
		}
	}
	return out, unresolved, nil
}

// FillUnresolved replaces every unresolved marker in the named column with a
// fixed value. Count features use this with zero: a key absent from the
// training partition truly has zero observations, so the mean of other keys'
// counts would overstate it.
func FillUnresolved(t *table.Table, column string, value float64) (*table.Table, int, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, 0, fmt.Errorf("fill unresolved: %w", err)
	}
	if col.Type != table.Numeric {
		return nil, 0, fmt.Errorf("fill unresolved: column %q is %s, want numeric", column, col.Type)
	}

	out := t.Clone()
	outCol, err := out.Column(column)
	if err != nil {
		return nil, 0, fmt.Errorf("fill unresolved: %w", err)
	}
	filled := 0
	for row := 0; row < outCol.Len(); row++ {
		if outCol.Missing[row] {
			outCol.Floats[row] = value
			outCol.Missing[row] = false
			filled++
		}
	}
	return out, filled, nil
}

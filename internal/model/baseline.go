// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package model

import (
	"context"
	"fmt"
	"math"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// Baseline is a closed-form linear regressor over the numeric feature
// columns: ordinary least squares with an intercept and a small ridge term
// for numerical stability. Fitting is deterministic, no randomness and no
// iteration order dependence, so repeated runs over the same features
// produce identical predictions.
//
// Fields are exported for gob persistence through the model store.
type Baseline struct {
	// Ridge is the L2 regularization strength added to the normal
	// equations' diagonal. Zero selects the default.
	Ridge float64

	// FeatureNames records the feature columns in training order. Predict
	// reads the same columns by name, so a reordered scoring table still
	// scores correctly (column presence is enforced upstream by the
	// schema contract).
	FeatureNames []string

	// Weights holds one coefficient per feature plus the intercept last.
	Weights []float64
}

const defaultRidge = 1e-8

// NewBaseline creates an unfitted baseline regressor.
func NewBaseline() *Baseline {
	return &Baseline{Ridge: defaultRidge}
}

// Fit solves the regularized normal equations over all numeric columns
// except the target.
func (b *Baseline) Fit(ctx context.Context, t *table.Table, targetColumn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := t.Column(targetColumn)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if target.Type != table.Numeric {
		return fmt.Errorf("fit: target column %q is %s, want numeric", targetColumn, target.Type)
	}
	if target.MissingCount() > 0 {
		return fmt.Errorf("fit: target column %q has missing values", targetColumn)
	}

	var names []string
	for _, name := range t.Names() {
		if name == targetColumn {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return fmt.Errorf("fit: %w", err)
		}
		if col.Type != table.Numeric {
			continue
		}
		if col.MissingCount() > 0 {
			return fmt.Errorf("fit: feature column %q has missing values", name)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return fmt.Errorf("fit: no numeric feature columns besides target %q", targetColumn)
	}
	rows := t.NumRows()
	if rows == 0 {
		return fmt.Errorf("fit: empty feature table")
	}

	features, err := numericMatrix(t, names)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	// Normal equations over [features | 1] with ridge on the diagonal.
	dim := len(names) + 1
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	rowVec := make([]float64, dim)
	for r := 0; r < rows; r++ {
		for j := range names {
			rowVec[j] = features[j][r]
		}
		rowVec[dim-1] = 1 // intercept
		y := target.Floats[r]
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += rowVec[i] * rowVec[j]
			}
			xty[i] += rowVec[i] * y
		}
	}
	ridge := b.Ridge
	if ridge <= 0 {
		ridge = defaultRidge
	}
	for i := 0; i < dim; i++ {
		xtx[i][i] += ridge
	}

	weights, err := solve(xtx, xty)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	b.FeatureNames = names
	b.Weights = weights
	return nil
}

// Predict applies the fitted weights to the feature columns by name.
func (b *Baseline) Predict(ctx context.Context, t *table.Table) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(b.Weights) == 0 {
		return nil, ErrNotFitted
	}

	features, err := numericMatrix(t, b.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	rows := t.NumRows()
	out := make([]float64, rows)
	intercept := b.Weights[len(b.Weights)-1]
	for r := 0; r < rows; r++ {
		v := intercept
		for j := range b.FeatureNames {
			v += b.Weights[j] * features[j][r]
		}
		out[r] = v
	}
	return out, nil
}

// numericMatrix extracts the named numeric columns as column-major slices.
func numericMatrix(t *table.Table, names []string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for j, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Type != table.Numeric {
			return nil, fmt.Errorf("column %q is %s, want numeric", name, col.Type)
		}
		if col.MissingCount() > 0 {
			return nil, fmt.Errorf("column %q has missing values", name)
		}
		out[j] = col.Floats
	}
	return out, nil
}

// solve performs Gaussian elimination with partial pivoting on a copy of
// the system.
func solve(a [][]float64, y []float64) ([]float64, error) {
	n := len(a)
	m := make([][]float64, n)
	for i := range a {
		m[i] = append([]float64(nil), a[i]...)
		m[i] = append(m[i], y[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular feature matrix at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		v := m[i][n]
		for j := i + 1; j < n; j++ {
			v -= m[i][j] * x[j]
		}
		x[i] = v / m[i][i]
	}
	return x, nil
}

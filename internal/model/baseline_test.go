// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package model

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tfoster-dev/featurelens/internal/table"
)

func mustTable(t *testing.T, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func TestBaselineRecoversLinearRelation(t *testing.T) {
	// y = 2x + 1 exactly; OLS with a tiny ridge must recover it to high
	// precision.
	x := []float64{1, 2, 3, 4, 5}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}
	train := mustTable(t,
		table.NewNumeric("X", x),
		table.NewNumeric("Rating", y),
	)

	b := NewBaseline()
	if err := b.Fit(context.Background(), train, "Rating"); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	got, err := b.Predict(context.Background(), train)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := range y {
		if math.Abs(got[i]-y[i]) > 1e-6 {
			t.Errorf("prediction[%d] = %f, want %f", i, got[i], y[i])
		}
	}
}

func TestBaselineDeterministic(t *testing.T) {
	train := mustTable(t,
		table.NewNumeric("A", []float64{1, 2, 3, 5, 8}),
		table.NewNumeric("B", []float64{2, 1, 0, 4, 3}),
		table.NewNumeric("Rating", []float64{3.5, 2.0, 1.0, 4.5, 5.0}),
	)

	var runs [][]float64
	for i := 0; i < 2; i++ {
		b := NewBaseline()
		if err := b.Fit(context.Background(), train, "Rating"); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		got, err := b.Predict(context.Background(), train)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		runs = append(runs, got)
	}
	if !reflect.DeepEqual(runs[0], runs[1]) {
		t.Error("identical inputs produced different predictions")
	}
}

func TestBaselinePredictByName(t *testing.T) {
	train := mustTable(t,
		table.NewNumeric("A", []float64{1, 2, 3}),
		table.NewNumeric("B", []float64{10, 20, 30}),
		table.NewNumeric("Rating", []float64{1, 2, 3}),
	)
	b := NewBaseline()
	if err := b.Fit(context.Background(), train, "Rating"); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Score table declares the columns in a different order; predictions
	// must match the training-order table.
	scoreReordered := mustTable(t,
		table.NewNumeric("B", []float64{10, 20, 30}),
		table.NewNumeric("A", []float64{1, 2, 3}),
	)
	scoreOrdered := mustTable(t,
		table.NewNumeric("A", []float64{1, 2, 3}),
		table.NewNumeric("B", []float64{10, 20, 30}),
	)

	p1, err := b.Predict(context.Background(), scoreReordered)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	p2, err := b.Predict(context.Background(), scoreOrdered)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("column order changed predictions: %v vs %v", p1, p2)
	}
}

func TestBaselinePredictBeforeFit(t *testing.T) {
	b := NewBaseline()
	tbl := mustTable(t, table.NewNumeric("A", []float64{1}))
	if _, err := b.Predict(context.Background(), tbl); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}
}

func TestBaselineRejectsMissingFeatures(t *testing.T) {
	bad := table.NewNumeric("A", []float64{1, 2})
	bad.SetMissing(1)
	train := mustTable(t, bad, table.NewNumeric("Rating", []float64{1, 2}))

	b := NewBaseline()
	if err := b.Fit(context.Background(), train, "Rating"); err == nil {
		t.Error("Fit() with missing feature cells should fail")
	}
}

func TestBaselineIgnoresTextColumns(t *testing.T) {
	train := mustTable(t,
		table.NewNumeric("A", []float64{1, 2, 3}),
		table.NewText("Title", []string{"x", "y", "z"}),
		table.NewNumeric("Rating", []float64{2, 4, 6}),
	)
	b := NewBaseline()
	if err := b.Fit(context.Background(), train, "Rating"); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !reflect.DeepEqual(b.FeatureNames, []string{"A"}) {
		t.Errorf("FeatureNames = %v, want [A]", b.FeatureNames)
	}
}

func TestStub(t *testing.T) {
	train := mustTable(t, table.NewNumeric("Rating", []float64{2, 4}))
	s := &Stub{}
	if err := s.Fit(context.Background(), train, "Rating"); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	score := mustTable(t, table.NewNumeric("Rating", []float64{0, 0, 0}))
	got, err := s.Predict(context.Background(), score)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := []float64{3, 3, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
}

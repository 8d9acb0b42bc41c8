// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"errors"
	"testing"

	"github.com/tfoster-dev/featurelens/internal/table"
)

func TestImputeFillsUnresolvedWithResolvedMean(t *testing.T) {
	col := table.NewNumeric("MovieAvgRating", []float64{4.0, 2.0, 0})
	col.SetMissing(2)
	tbl, err := table.New(col)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	got, n, err := Impute(tbl, "MovieAvgRating")
	if err != nil {
		t.Fatalf("Impute() error = %v", err)
	}
	if n != 1 {
		t.Errorf("imputed count = %d, want 1", n)
	}
	out, _ := got.Column("MovieAvgRating")
	if out.Floats[2] != 3.0 {
		t.Errorf("imputed value = %f, want 3.0 (mean of resolved 4.0 and 2.0)", out.Floats[2])
	}
	if out.MissingCount() != 0 {
		t.Error("no unresolved marker may survive imputation")
	}

	// Resolved cells stay untouched.
	if out.Floats[0] != 4.0 || out.Floats[1] != 2.0 {
		t.Errorf("resolved values changed: %v", out.Floats[:2])
	}
}

func TestImputeNoUnresolved(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("X", []float64{1, 2}))
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	got, n, err := Impute(tbl, "X")
	if err != nil {
		t.Fatalf("Impute() error = %v", err)
	}
	if n != 0 {
		t.Errorf("imputed count = %d, want 0", n)
	}
	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", got.NumRows())
	}
}

func TestImputeAllUnresolvedFails(t *testing.T) {
	col := table.NewNumeric("X", []float64{0, 0})
	col.SetMissing(0)
	col.SetMissing(1)
	tbl, err := table.New(col)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	_, _, err = Impute(tbl, "X")
	if !errors.Is(err, ErrImputationImpossible) {
		t.Errorf("Impute() error = %v, want ErrImputationImpossible", err)
	}
}

func TestImputeUnknownColumn(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("X", []float64{1}))
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	if _, _, err := Impute(tbl, "Y"); err == nil {
		t.Error("Impute() with unknown column should fail")
	}
}

func TestImputeDoesNotMutateInput(t *testing.T) {
	col := table.NewNumeric("X", []float64{5.0, 0})
	col.SetMissing(1)
	tbl, err := table.New(col)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	if _, _, err := Impute(tbl, "X"); err != nil {
		t.Fatalf("Impute() error = %v", err)
	}
	orig, _ := tbl.Column("X")
	if !orig.Missing[1] {
		t.Error("Impute() mutated its input table")
	}
}

func TestFillUnresolvedWithZero(t *testing.T) {
	col := table.NewNumeric("UserRatingCount", []float64{7, 0, 3})
	col.SetMissing(1)
	tbl, err := table.New(col)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	got, n, err := FillUnresolved(tbl, "UserRatingCount", 0)
	if err != nil {
		t.Fatalf("FillUnresolved() error = %v", err)
	}
	if n != 1 {
		t.Errorf("filled count = %d, want 1", n)
	}
	out, _ := got.Column("UserRatingCount")
	if out.Floats[1] != 0 {
		t.Errorf("filled value = %f, want 0", out.Floats[1])
	}
	if out.MissingCount() != 0 {
		t.Error("no unresolved marker may survive the fill")
	}
	if out.Floats[0] != 7 || out.Floats[2] != 3 {
		t.Errorf("resolved values changed: %v", out.Floats)
	}

	// Input stays untouched.
	in, _ := tbl.Column("UserRatingCount")
	if !in.Missing[1] {
		t.Error("FillUnresolved must not mutate its input")
	}
}

func TestFillUnresolvedNonNumeric(t *testing.T) {
	tbl, err := table.New(table.NewText("Tag", []string{"a"}))
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	if _, _, err := FillUnresolved(tbl, "Tag", 0); err == nil {
		t.Fatal("FillUnresolved() on a text column succeeded, want error")
	}
}

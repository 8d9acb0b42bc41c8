// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package contract

import (
	"errors"
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

func TestValidateProjectsIdenticalOrder(t *testing.T) {
	// The two tables declare the columns in different orders; the
	// projections must come out in the required order on both sides.
	train := mustTable(t,
		table.NewNumeric("A", []float64{1}),
		table.NewNumeric("B", []float64{2}),
		table.NewNumeric("Extra", []float64{0}),
	)
	score := mustTable(t,
		table.NewNumeric("B", []float64{4}),
		table.NewNumeric("A", []float64{3}),
	)

	gotTrain, gotScore, err := Validate(train, score, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []string{"A", "B"}
	if !reflect.DeepEqual(gotTrain.Names(), want) {
		t.Errorf("train projection = %v, want %v", gotTrain.Names(), want)
	}
	if !reflect.DeepEqual(gotScore.Names(), want) {
		t.Errorf("score projection = %v, want %v", gotScore.Names(), want)
	}
	// Extra columns outside the contract are projected away.
	if gotTrain.HasColumn("Extra") {
		t.Error("projection kept a column outside the contract")
	}
}

func TestValidateSchemaMismatch(t *testing.T) {
	train := mustTable(t, table.NewNumeric("A", []float64{1}))
	score := mustTable(t, table.NewNumeric("B", []float64{2}))

	_, _, err := Validate(train, score, []string{"A", "B"})
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Validate() error = %v, want SchemaMismatchError", err)
	}
	if !reflect.DeepEqual(mismatch.TrainMissing, []string{"B"}) {
		t.Errorf("TrainMissing = %v, want [B]", mismatch.TrainMissing)
	}
	if !reflect.DeepEqual(mismatch.ScoreMissing, []string{"A"}) {
		t.Errorf("ScoreMissing = %v, want [A]", mismatch.ScoreMissing)
	}
}

func TestValidateSymmetry(t *testing.T) {
	a := mustTable(t, table.NewNumeric("A", []float64{1}))
	b := mustTable(t, table.NewNumeric("B", []float64{2}))
	required := []string{"A", "B"}

	_, _, errAB := Validate(a, b, required)
	_, _, errBA := Validate(b, a, required)

	var ab, ba *SchemaMismatchError
	if !errors.As(errAB, &ab) || !errors.As(errBA, &ba) {
		t.Fatalf("Validate() errors = %v / %v, want SchemaMismatchError on both", errAB, errBA)
	}
	// Swapping arguments swaps the sides of the report.
	if !reflect.DeepEqual(ab.TrainMissing, ba.ScoreMissing) || !reflect.DeepEqual(ab.ScoreMissing, ba.TrainMissing) {
		t.Errorf("asymmetric reports: (A,B)=%+v (B,A)=%+v", ab, ba)
	}
}

func TestValidateMissingValues(t *testing.T) {
	bad := table.NewNumeric("A", []float64{1, 0})
	bad.SetMissing(1)
	train := mustTable(t, bad)
	score := mustTable(t, table.NewNumeric("A", []float64{1, 2}))

	_, _, err := Validate(train, score, []string{"A"})
	var mv *MissingValueError
	if !errors.As(err, &mv) {
		t.Fatalf("Validate() error = %v, want MissingValueError", err)
	}
	if mv.Side != "train" || mv.Column != "A" || mv.Rows != 1 {
		t.Errorf("MissingValueError = %+v, want train/A/1", mv)
	}
}

func TestValidateEmptyRequired(t *testing.T) {
	tbl := mustTable(t, table.NewNumeric("A", []float64{1}))
	if _, _, err := Validate(tbl, tbl, nil); err == nil {
		t.Error("Validate() with empty required set should fail")
	}
}

func TestValidateDuplicateRequired(t *testing.T) {
	tbl := mustTable(t, table.NewNumeric("A", []float64{1}))
	if _, _, err := Validate(tbl, tbl, []string{"A", "A"}); err == nil {
		t.Error("Validate() with duplicate required column should fail")
	}
}

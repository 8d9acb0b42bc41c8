// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package table

import "testing"

func TestFilterDropsRowsWithMissingCells(t *testing.T) {
	ids := NewNumeric("MovieID", []float64{1, 2, 3})
	titles := NewText("Title", []string{"a", "b", "c"})
	titles.SetMissing(1)

	tbl, err := New(ids, titles)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, report := Filter(tbl)

	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", got.NumRows())
	}
	if report.RowsDroppedMissing != 1 {
		t.Errorf("RowsDroppedMissing = %d, want 1", report.RowsDroppedMissing)
	}
	if report.MissingPerColumn["Title"] != 1 {
		t.Errorf("MissingPerColumn[Title] = %d, want 1", report.MissingPerColumn["Title"])
	}
	if report.MissingPerColumn["MovieID"] != 0 {
		t.Errorf("MissingPerColumn[MovieID] = %d, want 0", report.MissingPerColumn["MovieID"])
	}
	if got.MissingCells() != 0 {
		t.Errorf("MissingCells() = %d, want 0", got.MissingCells())
	}

	// Surviving rows keep first-seen order.
	outIDs, _ := got.Column("MovieID")
	if outIDs.Floats[0] != 1 || outIDs.Floats[1] != 3 {
		t.Errorf("MovieID = %v, want [1 3]", outIDs.Floats)
	}
}

func TestFilterRemovesExactDuplicates(t *testing.T) {
	// Input [(1,"A"), (1,"A"), (2,"B")] -> [(1,"A"), (2,"B")], 1 removed.
	tbl, err := New(
		NewNumeric("ID", []float64{1, 1, 2}),
		NewText("Name", []string{"A", "A", "B"}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, report := Filter(tbl)

	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", got.NumRows())
	}
	if report.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", report.DuplicatesRemoved)
	}
	ids, _ := got.Column("ID")
	names, _ := got.Column("Name")
	if ids.Floats[0] != 1 || names.Strings[0] != "A" || ids.Floats[1] != 2 || names.Strings[1] != "B" {
		t.Errorf("rows = (%v,%v), want [(1,A) (2,B)]", ids.Floats, names.Strings)
	}
}

func TestFilterCleanInput(t *testing.T) {
	tbl, err := New(NewNumeric("ID", []float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, report := Filter(tbl)

	if !report.Clean() {
		t.Errorf("Clean() = false, want true (report %+v)", report)
	}
	if got.NumRows() != tbl.NumRows() {
		t.Errorf("NumRows() = %d, want %d", got.NumRows(), tbl.NumRows())
	}
	if report.RowsIn != 3 || report.RowsOut != 3 {
		t.Errorf("RowsIn/RowsOut = %d/%d, want 3/3", report.RowsIn, report.RowsOut)
	}
}

func TestFilterDistinguishesMissingFromEmpty(t *testing.T) {
	// A missing text cell and an empty string are different values, a row
	// holding "" must not collide with a row holding a masked cell.
	names := NewText("Name", []string{"", ""})
	names.SetMissing(1)
	tbl, err := New(names)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, report := Filter(tbl)

	if got.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1", got.NumRows())
	}
	if report.RowsDroppedMissing != 1 || report.DuplicatesRemoved != 0 {
		t.Errorf("report = %+v, want 1 dropped missing and 0 duplicates", report)
	}
}

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"testing"

	"github.com/tfoster-dev/featurelens/internal/table"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		title    string
		wantYear int
		wantOK   bool
	}{
		{"Toy Story (1995)", 1995, true},
		{"Heat (1995)", 1995, true},
		// Holdout dataset formats titles with the same trailing year.
		{"One Flew Over the Cuckoo's Nest (1975)", 1975, true},
		// Parenthesized alternates before the year: last match wins.
		{"Seven (a.k.a. Se7en) (1995)", 1995, true},
		{"Twelve Monkeys (a.k.a. 12 Monkeys) (1995)", 1995, true},
		{"City of Lost Children, The (Cité des enfants perdus, La) (1995)", 1995, true},
		// No year present.
		{"Untitled", 0, false},
		{"", 0, false},
		// Parentheses without a 4-digit year.
		{"Movie (TV)", 0, false},
		{"Short (99)", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			year, ok := ExtractYear(tt.title)
			if year != tt.wantYear || ok != tt.wantOK {
				t.Errorf("ExtractYear(%q) = %d,%v, want %d,%v", tt.title, year, ok, tt.wantYear, tt.wantOK)
			}
		})
	}
}

func TestExtractYearSharedAcrossFormats(t *testing.T) {
	// The training CSV and the :: holdout format carry the same title
	// text; one extraction routine must give identical results for both.
	csvTitle := "Jumanji (1995)"
	datTitle := "Jumanji (1995)"

	a, okA := ExtractYear(csvTitle)
	b, okB := ExtractYear(datTitle)
	if a != b || okA != okB {
		t.Errorf("ExtractYear diverged: %d,%v vs %d,%v", a, okA, b, okB)
	}
}

func TestDeriveReleaseYear(t *testing.T) {
	tbl, err := table.New(
		table.NewNumeric("MovieID", []float64{1, 2}),
		table.NewText("Title", []string{"Toy Story (1995)", "Untitled"}),
	)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	got, err := DeriveReleaseYear(tbl, "Title", "Year")
	if err != nil {
		t.Fatalf("DeriveReleaseYear() error = %v", err)
	}
	col, _ := got.Column("Year")
	if col.Floats[0] != 1995 {
		t.Errorf("Year[0] = %f, want 1995", col.Floats[0])
	}
	if !col.Missing[1] {
		t.Error("title without a year must yield a missing cell")
	}
}

func TestDeriveCalendarUTC(t *testing.T) {
	tests := []struct {
		name      string
		ts        int64
		wantYear  float64
		wantMonth float64
	}{
		// 2000-12-31T23:59:59Z: local conversion in an eastern zone
		// would already be January 2001.
		{name: "year boundary", ts: 978307199, wantYear: 2000, wantMonth: 12},
		{name: "epoch", ts: 0, wantYear: 1970, wantMonth: 1},
		{name: "mid 2015", ts: 1435708800, wantYear: 2015, wantMonth: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.New(table.NewTimestamp("Timestamp", []int64{tt.ts}))
			if err != nil {
				t.Fatalf("table.New() error = %v", err)
			}
			got, err := DeriveCalendar(tbl, "Timestamp", "RatingYear", "RatingMonth")
			if err != nil {
				t.Fatalf("DeriveCalendar() error = %v", err)
			}
			years, _ := got.Column("RatingYear")
			months, _ := got.Column("RatingMonth")
			if years.Floats[0] != tt.wantYear {
				t.Errorf("RatingYear = %f, want %f", years.Floats[0], tt.wantYear)
			}
			if months.Floats[0] != tt.wantMonth {
				t.Errorf("RatingMonth = %f, want %f", months.Floats[0], tt.wantMonth)
			}
		})
	}
}

func TestDeriveYearsSince(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("Year", []float64{1995, 2010}))
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	got, err := DeriveYearsSince(tbl, "Year", "YearsSinceRelease", 2025)
	if err != nil {
		t.Fatalf("DeriveYearsSince() error = %v", err)
	}
	col, _ := got.Column("YearsSinceRelease")
	if col.Floats[0] != 30 || col.Floats[1] != 15 {
		t.Errorf("YearsSinceRelease = %v, want [30 15]", col.Floats)
	}
}

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// yearPattern captures a 4-digit year in parentheses. The last match wins
// so titles containing a parenthesized year mid-string, e.g.
// "Seven (a.k.a. Se7en) (1995)", resolve to the release year.
var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// ExtractYear parses the release year from a movie title of the form
// "Title (YYYY)". Returns false when the title carries no parenthesized
// 4-digit year.
//
// Both the training path and the scoring path must call this one routine;
// the two datasets format titles differently and independently coded
// extraction regexes have diverged before.
func ExtractYear(title string) (int, bool) {
	matches := yearPattern.FindAllStringSubmatch(title, -1)
	if len(matches) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// DeriveReleaseYear adds a numeric yearColumn extracted from titleColumn
// via ExtractYear. Titles without a recognizable year produce a missing
// cell; the integrity gate drops those rows when the table is filtered.
func DeriveReleaseYear(t *table.Table, titleColumn, yearColumn string) (*table.Table, error) {
	titles, err := t.Column(titleColumn)
	if err != nil {
		return nil, fmt.Errorf("derive release year: %w", err)
	}
	if titles.Type != table.Text {
		return nil, fmt.Errorf("derive release year: column %q is %s, want text", titleColumn, titles.Type)
	}

	out := t.Clone()
	col := table.NewNumeric(yearColumn, make([]float64, titles.Len()))
	for row := 0; row < titles.Len(); row++ {
		if titles.Missing[row] {
			col.SetMissing(row)
			continue
		}
		year, ok := ExtractYear(titles.Strings[row])
		if !ok {
			col.SetMissing(row)
			continue
		}
		col.Floats[row] = float64(year)
	}
	if err := out.SetColumn(col); err != nil {
		return nil, fmt.Errorf("derive release year: %w", err)
	}
	return out, nil
}

// DeriveCalendar adds calendar year and month-of-year (1-12) columns
// computed from a Unix-epoch timestamp column. Conversion is fixed to UTC
// so the two pipeline paths agree regardless of host locale.
func DeriveCalendar(t *table.Table, tsColumn, yearColumn, monthColumn string) (*table.Table, error) {
	ts, err := t.Column(tsColumn)
	if err != nil {
		return nil, fmt.Errorf("derive calendar: %w", err)
	}
	if ts.Type != table.Timestamp {
		return nil, fmt.Errorf("derive calendar: column %q is %s, want timestamp", tsColumn, ts.Type)
	}

	out := t.Clone()
	years := table.NewNumeric(yearColumn, make([]float64, ts.Len()))
	months := table.NewNumeric(monthColumn, make([]float64, ts.Len()))
	for row := 0; row < ts.Len(); row++ {
		if ts.Missing[row] {
			years.SetMissing(row)
			months.SetMissing(row)
			continue
		}
		at := time.Unix(ts.Times[row], 0).UTC()
		years.Floats[row] = float64(at.Year())
		months.Floats[row] = float64(at.Month())
	}
	if err := out.SetColumn(years); err != nil {
		return nil, fmt.Errorf("derive calendar: %w", err)
	}
	if err := out.SetColumn(months); err != nil {
		return nil, fmt.Errorf("derive calendar: %w", err)
	}
	return out, nil
}

// DeriveYearsSince adds outColumn = referenceYear - yearColumn. Used on the
// scoring path to compute years since release from the extracted release
// year. Missing release years propagate as missing cells.
func DeriveYearsSince(t *table.Table, yearColumn, outColumn string, referenceYear int) (*table.Table, error) {
	years, err := t.Column(yearColumn)
	if err != nil {
		return nil, fmt.Errorf("derive years since: %w", err)
	}
	if years.Type != table.Numeric {
		return nil, fmt.Errorf("derive years since: column %q is %s, want numeric", yearColumn, years.Type)
	}

	out := t.Clone()
	col := table.NewNumeric(outColumn, make([]float64, years.Len()))
	for row := 0; row < years.Len(); row++ {
		if years.Missing[row] {
			col.SetMissing(row)
			continue
		}
		col.Floats[row] = float64(referenceYear) - years.Floats[row]
	}
	if err := out.SetColumn(col); err != nil {
		return nil, fmt.Errorf("derive years since: %w", err)
	}
	return out, nil
}

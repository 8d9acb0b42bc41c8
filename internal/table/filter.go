// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package table

// FilterReport describes what the integrity gate removed from a table.
type FilterReport struct {
	// MissingPerColumn maps column name to the number of missing cells
	// observed in the input, including columns with zero missing cells.
	MissingPerColumn map[string]int `json:"missing_per_column"`

	// RowsDroppedMissing is the number of rows removed because at least
	// one cell was missing.
	RowsDroppedMissing int `json:"rows_dropped_missing"`

	// DuplicatesRemoved is the number of exact-duplicate rows removed
	// after the missing-value pass.
	DuplicatesRemoved int `json:"duplicates_removed"`

	// RowsIn and RowsOut are the input and output row counts.
	RowsIn  int `json:"rows_in"`
	RowsOut int `json:"rows_out"`
}

// Clean reports whether the gate removed nothing.
func (r FilterReport) Clean() bool {
	return r.RowsDroppedMissing == 0 && r.DuplicatesRemoved == 0
}

// Filter applies the row-level integrity gate: drop every row containing a
// missing cell in any column, then drop exact-duplicate rows preserving
// first-seen order. The input table is not modified.
//
// Post-conditions on the returned table: zero missing cells, zero duplicate
// rows, row count less than or equal to the input row count.
func Filter(t *Table) (*Table, FilterReport) {
	report := FilterReport{
		MissingPerColumn: make(map[string]int, t.NumCols()),
		RowsIn:           t.NumRows(),
	}
	for _, c := range t.cols {
		report.MissingPerColumn[c.Name] = c.MissingCount()
	}

	keep := make([]int, 0, t.rows)
	seen := make(map[string]struct{}, t.rows)
rowLoop:
	for row := 0; row < t.rows; row++ {
		for _, c := range t.cols {
			if c.Missing[row] {
				report.RowsDroppedMissing++
				continue rowLoop
			}
		}
		key := t.rowKey(row)
		if _, dup := seen[key]; dup {
			report.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, row)
	}

	// Row indices come straight from the scan above, Take cannot fail.
	out, _ := t.Take(keep)
	report.RowsOut = out.NumRows()
	return out, report
}

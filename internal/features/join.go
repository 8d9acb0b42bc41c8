// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"fmt"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// Join performs a left join of the aggregate index into base on keyColumn,
// materializing the statistic as outColumn in a fresh table.
//
// Every base row is preserved. Rows whose key is present in the index
// receive the statistic; rows whose key is absent receive the unresolved
// marker (a masked cell), never zero and never a dropped row. The cold
// start imputer resolves the markers later.
//
// An existing column named outColumn is overwritten in place, so joining
// the same index twice under the same name is idempotent and repeated joins
// into differently-sourced tables cannot accumulate suffixed duplicates.
func Join(base *table.Table, idx *AggregateIndex, keyColumn, outColumn string) (*table.Table, error) {
	if idx == nil {
		return nil, fmt.Errorf("join %q: nil aggregate index", outColumn)
	}
	keys, err := intKeys(base, keyColumn)
	if err != nil {
		return nil, fmt.Errorf("join %q: %w", outColumn, err)
	}

	out := base.Clone()
	col := table.NewNumeric(outColumn, make([]float64, len(keys)))
	unresolved := 0
	for row, k := range keys {
		if v, ok := idx.Lookup(k); ok {
			col.Floats[row] = v
		} else {
			col.SetMissing(row)
			unresolved++
		}
	}
	if err := out.SetColumn(col); err != nil {
		return nil, fmt.Errorf("join %q: %w", outColumn, err)
	}
	return out, nil
}

// Unresolved returns the number of unresolved markers in the named column.
func Unresolved(t *table.Table, column string) (int, error) {
	col, err := t.Column(column)
	if err != nil {
		return 0, err
	}
	return col.MissingCount(), nil
}

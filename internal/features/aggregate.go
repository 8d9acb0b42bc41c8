// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"fmt"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// intKeys extracts the key column as int64 values. Key columns are numeric
// entity identifiers; fractional or missing keys indicate an unfiltered
// input and are rejected.
func intKeys(t *table.Table, keyColumn string) ([]int64, error) {
	col, err := t.Column(keyColumn)
	if err != nil {
		return nil, err
	}
	if col.Type != table.Numeric {
		return nil, fmt.Errorf("key column %q is %s, want numeric", keyColumn, col.Type)
	}
	keys := make([]int64, col.Len())
	for row := 0; row < col.Len(); row++ {
		if col.Missing[row] {
			return nil, fmt.Errorf("key column %q has missing value at row %d", keyColumn, row)
		}
		k := int64(col.Floats[row])
		if float64(k) != col.Floats[row] {
			return nil, fmt.Errorf("key column %q has non-integer value %v at row %d", keyColumn, col.Floats[row], row)
		}
		keys[row] = k
	}
	return keys, nil
}

// BuildMeanIndex groups valueColumn by keyColumn and computes the
// arithmetic mean per key.
//
// The caller must pass the training ratings partition only. Mixing in
// held-out rows leaks evaluation information into a feature the model
// consumes; the AggregateSet freeze guard keeps the first index built per
// name authoritative, but it cannot check the provenance of the source
// table itself.
func BuildMeanIndex(t *table.Table, keyColumn, valueColumn string) (*AggregateIndex, error) {
	keys, err := intKeys(t, keyColumn)
	if err != nil {
		return nil, fmt.Errorf("build mean index: %w", err)
	}
	values, err := t.Column(valueColumn)
	if err != nil {
		return nil, fmt.Errorf("build mean index: %w", err)
	}
	if values.Type != table.Numeric {
		return nil, fmt.Errorf("build mean index: value column %q is %s, want numeric", valueColumn, values.Type)
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for row, k := range keys {
		if values.Missing[row] {
			return nil, fmt.Errorf("build mean index: value column %q has missing value at row %d", valueColumn, row)
		}
		sums[k] += values.Floats[row]
		counts[k]++
	}

	out := make(map[int64]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / float64(counts[k])
	}
	return &AggregateIndex{keyColumn: keyColumn, stat: StatMean, values: out}, nil
}

// BuildCountIndex groups rows by keyColumn and counts them per key. Used
// for the per-user rating count feature, computed honestly from the same
// training partition as the mean indexes.
func BuildCountIndex(t *table.Table, keyColumn string) (*AggregateIndex, error) {
	keys, err := intKeys(t, keyColumn)
	if err != nil {
		return nil, fmt.Errorf("build count index: %w", err)
	}
	counts := make(map[int64]float64, len(keys))
	for _, k := range keys {
		counts[k]++
	}
	return &AggregateIndex{keyColumn: keyColumn, stat: StatCount, values: counts}, nil
}

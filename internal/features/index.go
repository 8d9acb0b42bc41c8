// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"errors"
	"fmt"
	"sort"
)

// ErrIndexFrozen is returned when a stage attempts to register an aggregate
// under a name that already holds one. The first index built per name is
// authoritative for the remainder of the run.
var ErrIndexFrozen = errors.New("aggregate index already registered and frozen")

// Statistic identifies the reduction an AggregateIndex holds.
type Statistic string

const (
	// StatMean is the arithmetic mean of the value column per key.
	StatMean Statistic = "mean"
	// StatCount is the number of rows per key.
	StatCount Statistic = "count"
)

// AggregateIndex maps an entity key (MovieID or UserID) to a scalar
// statistic. It is built once from a designated source partition and is
// read-only afterwards; consumers receive it by reference and must not
// mutate it.
type AggregateIndex struct {
	keyColumn string
	stat      Statistic
	values    map[int64]float64
}

// KeyColumn returns the name of the column the index was grouped by.
func (idx *AggregateIndex) KeyColumn() string {
	return idx.keyColumn
}

// Stat returns the statistic the index holds.
func (idx *AggregateIndex) Stat() Statistic {
	return idx.stat
}

// Len returns the number of distinct keys in the index.
func (idx *AggregateIndex) Len() int {
	return len(idx.values)
}

// Lookup returns the statistic for the given key and whether it is present.
func (idx *AggregateIndex) Lookup(key int64) (float64, bool) {
	v, ok := idx.values[key]
	return v, ok
}

// Keys returns the keys in ascending order. Intended for tests and reports.
func (idx *AggregateIndex) Keys() []int64 {
	keys := make([]int64, 0, len(idx.values))
	for k := range idx.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// AggregateSet holds the frozen aggregate indexes for a pipeline run. It is
// the only state shared between the train-join and score-join stages;
// Register refuses to replace an existing entry so the first index computed
// per name stays authoritative.
type AggregateSet struct {
	indexes map[string]*AggregateIndex
}

// NewAggregateSet creates an empty aggregate set.
func NewAggregateSet() *AggregateSet {
	return &AggregateSet{indexes: make(map[string]*AggregateIndex)}
}

// Register stores the index under the given name. Returns ErrIndexFrozen
// if the name is already taken.
func (s *AggregateSet) Register(name string, idx *AggregateIndex) error {
	if idx == nil {
		return fmt.Errorf("register %q: nil index", name)
	}
	if _, ok := s.indexes[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrIndexFrozen)
	}
	s.indexes[name] = idx
	return nil
}

// Get returns the index registered under name.
func (s *AggregateSet) Get(name string) (*AggregateIndex, bool) {
	idx, ok := s.indexes[name]
	return idx, ok
}

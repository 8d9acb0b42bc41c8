// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package split partitions row indices into disjoint train and test sets.
//
// The partition is deterministic for a fixed seed: the same (n, fraction,
// seed) triple always yields the same permutation, so a pipeline run is
// reproducible end to end. Train and test together cover every row exactly
// once.
package split

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split partitions the indices [0, n) into train and test sets. testFraction
// of the rows (rounded down) go to test, the rest to train. Both slices come
// back in ascending order so downstream Take calls preserve source order.
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("split: row count must be positive, got %d", n)
	}
	if testFraction < 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("split: test fraction must be in [0,1), got %f", testFraction)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(float64(n) * testFraction)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package features

import (
	"errors"
	"reflect"
	"testing"
)

func TestAggregateSetFreezesFirstRegistration(t *testing.T) {
	set := NewAggregateSet()

	train := ratingsTable(t, []float64{1}, []float64{1}, []float64{5.0})
	first, err := BuildMeanIndex(train, "MovieID", "Rating")
	if err != nil {
		t.Fatalf("BuildMeanIndex() error = %v", err)
	}
	if err := set.Register("movie_avg", first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// A second registration, e.g. from a stage accidentally recomputing
	// over train+test, must be refused.
	full := ratingsTable(t, []float64{1, 2}, []float64{1, 1}, []float64{5.0, 1.0})
	second, err := BuildMeanIndex(full, "MovieID", "Rating")
	if err != nil {
		t.Fatalf("BuildMeanIndex() error = %v", err)
	}
	if err := set.Register("movie_avg", second); !errors.Is(err, ErrIndexFrozen) {
		t.Errorf("Register() second time error = %v, want ErrIndexFrozen", err)
	}

	got, ok := set.Get("movie_avg")
	if !ok {
		t.Fatal("Get() = missing, want present")
	}
	if v, _ := got.Lookup(1); v != 5.0 {
		t.Errorf("frozen index value = %f, want 5.0 (first registration wins)", v)
	}
}

func TestAggregateSetRejectsNil(t *testing.T) {
	set := NewAggregateSet()
	if err := set.Register("x", nil); err == nil {
		t.Error("Register(nil) error = nil, want error")
	}
}

func TestAggregateSetGetAbsent(t *testing.T) {
	set := NewAggregateSet()
	if _, ok := set.Get("absent"); ok {
		t.Error("Get() on empty set = present, want absent")
	}
}

func TestIndexKeysSorted(t *testing.T) {
	tbl := ratingsTable(t, []float64{1, 2, 3}, []float64{30, 10, 20}, []float64{1, 2, 3})
	idx, err := BuildMeanIndex(tbl, "MovieID", "Rating")
	if err != nil {
		t.Fatalf("BuildMeanIndex() error = %v", err)
	}
	want := []int64{10, 20, 30}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

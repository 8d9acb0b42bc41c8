// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package contract gates the model boundary: before either feature table
// reaches the opaque regressor, the training table and the scoring table
// must expose the identical, ordered column set with no missing values.
//
// The model consumes columns positionally and by name; a silent mismatch
// does not crash, it produces meaningless predictions, so validation
// failures here are fatal to the run.
package contract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// SchemaMismatchError reports required columns absent from either table.
// The reports are symmetric: validating (A, B) and (B, A) yields the same
// column sets on swapped sides.
type SchemaMismatchError struct {
	// TrainMissing lists required columns absent from the training table.
	TrainMissing []string
	// ScoreMissing lists required columns absent from the scoring table.
	ScoreMissing []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.TrainMissing) > 0 {
		parts = append(parts, fmt.Sprintf("train table missing columns [%s]", strings.Join(e.TrainMissing, ", ")))
	}
	if len(e.ScoreMissing) > 0 {
		parts = append(parts, fmt.Sprintf("score table missing columns [%s]", strings.Join(e.ScoreMissing, ", ")))
	}
	return "schema mismatch: " + strings.Join(parts, "; ")
}

// MissingValueError reports missing cells found inside the projected
// feature matrix.
type MissingValueError struct {
	// Side identifies which table held the missing values ("train" or "score").
	Side string
	// Column is the offending column name.
	Column string
	// Rows is the number of rows with a missing cell in that column.
	Rows int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing values present: %s table column %q has %d missing rows", e.Side, e.Column, e.Rows)
}

// Validate checks that both tables carry every required column, projects
// both onto the required columns in the given order, and verifies the
// projections contain no missing cells. On success it returns the two
// projections as fresh read-only feature matrices; on failure the pipeline
// must halt.
func Validate(train, score *table.Table, required []string) (*table.Table, *table.Table, error) {
	if len(required) == 0 {
		return nil, nil, fmt.Errorf("validate: empty required column set")
	}
	if dup := firstDuplicate(required); dup != "" {
		return nil, nil, fmt.Errorf("validate: duplicate required column %q", dup)
	}

	mismatch := &SchemaMismatchError{}
	for _, name := range required {
		if !train.HasColumn(name) {
			mismatch.TrainMissing = append(mismatch.TrainMissing, name)
		}
		if !score.HasColumn(name) {
			mismatch.ScoreMissing = append(mismatch.ScoreMissing, name)
		}
	}
	if len(mismatch.TrainMissing) > 0 || len(mismatch.ScoreMissing) > 0 {
		sort.Strings(mismatch.TrainMissing)
		sort.Strings(mismatch.ScoreMissing)
		return nil, nil, mismatch
	}

	trainProj, err := train.Project(required)
	if err != nil {
		return nil, nil, fmt.Errorf("validate: project train: %w", err)
	}
	scoreProj, err := score.Project(required)
	if err != nil {
		return nil, nil, fmt.Errorf("validate: project score: %w", err)
	}

	if err := noMissing(trainProj, "train"); err != nil {
		return nil, nil, err
	}
	if err := noMissing(scoreProj, "score"); err != nil {
		return nil, nil, err
	}
	return trainProj, scoreProj, nil
}

// noMissing fails with a MissingValueError naming the first offending
// column in declaration order.
func noMissing(t *table.Table, side string) error {
	for _, name := range t.Names() {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		if n := col.MissingCount(); n > 0 {
			return &MissingValueError{Side: side, Column: name, Rows: n}
		}
	}
	return nil
}

func firstDuplicate(names []string) string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n
		}
		seen[n] = struct{}{}
	}
	return ""
}

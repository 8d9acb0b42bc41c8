// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package table

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// snapshot is the gob wire form of a Table. Kept separate from the Table
// struct so internal invariants (name index, row count) are rebuilt on
// decode instead of trusted from the blob.
type snapshot struct {
	Columns []Column
}

// GobEncode serializes the table for blob persistence.
func (t *Table) GobEncode() ([]byte, error) {
	snap := snapshot{Columns: make([]Column, len(t.cols))}
	for i, c := range t.cols {
		snap.Columns[i] = *c
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the table from its serialized form, re-validating the
// column invariants.
func (t *Table) GobDecode(data []byte) error {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("decode table: %w", err)
	}
	cols := make([]*Column, len(snap.Columns))
	for i := range snap.Columns {
		cols[i] = &snap.Columns[i]
	}
	decoded, err := New(cols...)
	if err != nil {
		return fmt.Errorf("rebuild table: %w", err)
	}
	*t = *decoded
	return nil
}

// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV writes the table as delimited text with a header row. Missing
// cells are written as empty fields. Numeric cells use the shortest
// round-trippable representation so re-loading yields identical values.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.cols))
	for row := 0; row < t.rows; row++ {
		for i, c := range t.cols {
			if c.Missing[row] {
				record[i] = ""
				continue
			}
			switch c.Type {
			case Numeric:
				record[i] = strconv.FormatFloat(c.Floats[row], 'g', -1, 64)
			case Text:
				record[i] = c.Strings[row]
			case Timestamp:
				record[i] = strconv.FormatInt(c.Times[row], 10)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to the given path, creating parent directories
// as needed. The file is written atomically via a temp file and rename so a
// failed run never leaves a partial output behind.
func (t *Table) SaveCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := t.WriteCSV(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

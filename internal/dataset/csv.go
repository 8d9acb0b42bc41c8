// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// builder accumulates parsed cells and materializes the output table.
type builder struct {
	schema Schema
	cols   []*table.Column
}

func newBuilder(schema Schema) *builder {
	b := &builder{schema: schema}
	for _, spec := range schema.Columns {
		b.cols = append(b.cols, &table.Column{Name: spec.Name, Type: spec.Type})
	}
	return b
}

// appendCell parses one raw field into column i. NA tokens become missing
// cells; any other unparseable value is a hard error, not a silent drop.
func (b *builder) appendCell(i int, raw string, na map[string]struct{}, row int) error {
	col := b.cols[i]
	if _, missing := na[raw]; missing {
		switch col.Type {
		case table.Numeric:
			col.Floats = append(col.Floats, math.NaN())
		case table.Text:
			col.Strings = append(col.Strings, "")
		case table.Timestamp:
			col.Times = append(col.Times, 0)
		}
		col.Missing = append(col.Missing, true)
		return nil
	}

	switch col.Type {
	case table.Numeric:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("row %d column %q: parse %q as number: %w", row, col.Name, raw, err)
		}
		col.Floats = append(col.Floats, v)
	case table.Text:
		col.Strings = append(col.Strings, raw)
	case table.Timestamp:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("row %d column %q: parse %q as timestamp: %w", row, col.Name, raw, err)
		}
		col.Times = append(col.Times, v)
	}
	col.Missing = append(col.Missing, false)
	return nil
}

func (b *builder) table() (*table.Table, error) {
	return table.New(b.cols...)
}

func naSet(tokens []string) map[string]struct{} {
	na := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		na[t] = struct{}{}
	}
	return na
}

// LoadCSV loads a comma-delimited source with a header row. Header fields
// are matched against the schema's Source names, so column order in the
// file does not matter. A missing file fails with an error wrapping
// os.ErrNotExist.
func LoadCSV(path string, schema Schema, naTokens []string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Entity, err)
	}
	defer f.Close()
	return readCSV(f, schema, naTokens)
}

func readCSV(r io.Reader, schema Schema, naTokens []string) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("load %s: empty file", schema.Entity)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: read header: %w", schema.Entity, err)
	}

	// Map each schema column to its position in the file.
	pos := make([]int, len(schema.Columns))
	for i, spec := range schema.Columns {
		pos[i] = -1
		for j, field := range header {
			if field == spec.Source {
				pos[i] = j
				break
			}
		}
		if pos[i] < 0 {
			return nil, fmt.Errorf("load %s: header missing field %q", schema.Entity, spec.Source)
		}
	}

	b := newBuilder(schema)
	na := naSet(naTokens)
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: read row %d: %w", schema.Entity, row, err)
		}
		for i := range schema.Columns {
			if pos[i] >= len(record) {
				return nil, fmt.Errorf("load %s: row %d has %d fields, need field %d", schema.Entity, row, len(record), pos[i])
			}
			if err := b.appendCell(i, record[pos[i]], na, row); err != nil {
				return nil, fmt.Errorf("load %s: %w", schema.Entity, err)
			}
		}
		row++
	}
	return b.table()
}

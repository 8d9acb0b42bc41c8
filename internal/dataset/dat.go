// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// datSeparator is the fixed field delimiter of the holdout dataset's line
// format, e.g. "1::Toy Story (1995)::Animation|Children's|Comedy".
const datSeparator = "::"

// LoadDat loads a "::"-delimited source without a header row. Fields map
// to schema columns positionally. Output column names and types are
// identical to LoadCSV's for the same schema, so the two formats are
// interchangeable downstream.
func LoadDat(path string, schema Schema, naTokens []string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Entity, err)
	}
	defer f.Close()
	return readDat(f, schema, naTokens)
}

func readDat(r io.Reader, schema Schema, naTokens []string) (*table.Table, error) {
	b := newBuilder(schema)
	na := naSet(naTokens)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, datSeparator)
		if len(fields) != len(schema.Columns) {
			return nil, fmt.Errorf("load %s: row %d has %d fields, want %d", schema.Entity, row, len(fields), len(schema.Columns))
		}
		for i, raw := range fields {
			if err := b.appendCell(i, raw, na, row); err != nil {
				return nil, fmt.Errorf("load %s: %w", schema.Entity, err)
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load %s: scan: %w", schema.Entity, err)
	}
	return b.table()
}

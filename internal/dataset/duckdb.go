// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"

	// DuckDB driver - read-only access to database-packaged datasets
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tfoster-dev/featurelens/internal/table"
)

// Reader loads entity tables from a DuckDB database file. Used when the
// raw sources arrive as a single database instead of delimited text files.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens the database read-only. A missing file fails with an
// error wrapping os.ErrNotExist, matching the delimited-text loaders.
func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset database: %w", err)
	}
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open dataset database: %w", err)
	}
	return &Reader{db: db, path: path}, nil
}

// Close releases the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// LoadTable reads the schema's relation into an Entity Table. SQL NULLs
// become missing cells, the same policy the text loaders apply to NA
// tokens.
func (r *Reader) LoadTable(ctx context.Context, schema Schema) (*table.Table, error) {
	sources := make([]string, len(schema.Columns))
	for i, spec := range schema.Columns {
		sources[i] = quoteIdent(spec.Source)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(sources, ", "), quoteIdent(schema.Relation))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load %s: query %s: %w", schema.Entity, r.path, err)
	}
	defer rows.Close()

	b := newBuilder(schema)
	row := 0
	for rows.Next() {
		dest := make([]any, len(schema.Columns))
		for i, spec := range schema.Columns {
			switch spec.Type {
			case table.Numeric:
				dest[i] = new(sql.NullFloat64)
			case table.Text:
				dest[i] = new(sql.NullString)
			case table.Timestamp:
				dest[i] = new(sql.NullInt64)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("load %s: scan row %d: %w", schema.Entity, row, err)
		}
		for i, spec := range schema.Columns {
			col := b.cols[i]
			switch spec.Type {
			case table.Numeric:
				v := dest[i].(*sql.NullFloat64)
				if v.Valid {
					col.Floats = append(col.Floats, v.Float64)
					col.Missing = append(col.Missing, false)
				} else {
					col.Floats = append(col.Floats, math.NaN())
					col.Missing = append(col.Missing, true)
				}
			case table.Text:
				v := dest[i].(*sql.NullString)
				col.Strings = append(col.Strings, v.String)
				col.Missing = append(col.Missing, !v.Valid)
			case table.Timestamp:
				v := dest[i].(*sql.NullInt64)
				col.Times = append(col.Times, v.Int64)
				col.Missing = append(col.Missing, !v.Valid)
			}
		}
		row++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: iterate rows: %w", schema.Entity, err)
	}
	return b.table()
}

// quoteIdent quotes an identifier for DuckDB. Schema identifiers are
// compile-time constants, quoting guards against reserved words like
// "timestamp", not against injection.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

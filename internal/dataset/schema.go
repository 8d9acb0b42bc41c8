// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package dataset loads the four raw relational sources (movies, ratings,
// tags, links) into Entity Tables.
//
// Three loaders share one schema definition per entity, so every loader
// assigns identical column names and types and downstream stages stay
// format-agnostic:
//
//   - LoadCSV: comma-delimited with a header row, configurable
//     missing-value tokens
//   - LoadDat: fixed "::"-delimited lines without a header (the holdout
//     dataset's encoding)
//   - Reader.LoadTable: rows from a DuckDB database file
package dataset

import "github.com/tfoster-dev/featurelens/internal/table"

// ColumnSpec maps one raw source field to an output column.
type ColumnSpec struct {
	// Name is the canonical output column name, e.g. "MovieID".
	Name string
	// Source is the field name in the raw source: the CSV header field or
	// the database column. Positional formats use declaration order.
	Source string
	// Type is the output column type.
	Type table.Type
}

// Schema describes how one entity's raw source maps to an Entity Table.
type Schema struct {
	// Entity names the entity, used in error messages and logs.
	Entity string
	// Relation is the source relation name for database-backed loaders.
	Relation string
	// Columns lists the output columns in order.
	Columns []ColumnSpec
}

// Names returns the output column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// DefaultNATokens are the string tokens recognized as missing values at
// parse time.
var DefaultNATokens = []string{"", "NA"}

// Movies is the schema for the movie source: one row per movie. Year is
// not a raw field, it is derived from Title downstream.
var Movies = Schema{
	Entity:   "movies",
	Relation: "movies",
	Columns: []ColumnSpec{
		{Name: "MovieID", Source: "movieId", Type: table.Numeric},
		{Name: "Title", Source: "title", Type: table.Text},
		{Name: "Genres", Source: "genres", Type: table.Text},
	},
}

// Ratings is the schema for the ratings source: many rows per movie and
// per user.
var Ratings = Schema{
	Entity:   "ratings",
	Relation: "ratings",
	Columns: []ColumnSpec{
		{Name: "UserID", Source: "userId", Type: table.Numeric},
		{Name: "MovieID", Source: "movieId", Type: table.Numeric},
		{Name: "Rating", Source: "rating", Type: table.Numeric},
		{Name: "Timestamp", Source: "timestamp", Type: table.Timestamp},
	},
}

// Tags is the schema for the tag source.
var Tags = Schema{
	Entity:   "tags",
	Relation: "tags",
	Columns: []ColumnSpec{
		{Name: "UserID", Source: "userId", Type: table.Numeric},
		{Name: "MovieID", Source: "movieId", Type: table.Numeric},
		{Name: "Tag", Source: "tag", Type: table.Text},
		{Name: "Timestamp", Source: "timestamp", Type: table.Timestamp},
	},
}

// Links is the schema for the external-identifier source. The identifiers
// are opaque strings, never parsed as numbers.
var Links = Schema{
	Entity:   "links",
	Relation: "links",
	Columns: []ColumnSpec{
		{Name: "MovieID", Source: "movieId", Type: table.Numeric},
		{Name: "IMDbID", Source: "imdbId", Type: table.Text},
		{Name: "TMDBID", Source: "tmdbId", Type: table.Text},
	},
}

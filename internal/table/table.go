// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type identifies the storage type of a column.
type Type int

const (
	// Numeric columns hold float64 values.
	Numeric Type = iota
	// Text columns hold string values.
	Text
	// Timestamp columns hold Unix epoch seconds.
	Timestamp
)

// String returns a human-readable name for the column type.
func (t Type) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column is a named, homogeneously typed array of cells with a missing mask.
// Exactly one of Floats, Strings, Times is populated, selected by Type.
type Column struct {
	Name    string
	Type    Type
	Floats  []float64
	Strings []string
	Times   []int64
	Missing []bool
}

// NewNumeric creates a numeric column with no missing cells.
func NewNumeric(name string, values []float64) *Column {
	return &Column{
		Name:    name,
		Type:    Numeric,
		Floats:  values,
		Missing: make([]bool, len(values)),
	}
}

// NewText creates a text column with no missing cells.
func NewText(name string, values []string) *Column {
	return &Column{
		Name:    name,
		Type:    Text,
		Strings: values,
		Missing: make([]bool, len(values)),
	}
}

// NewTimestamp creates a timestamp column with no missing cells.
func NewTimestamp(name string, values []int64) *Column {
	return &Column{
		Name:    name,
		Type:    Timestamp,
		Times:   values,
		Missing: make([]bool, len(values)),
	}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	switch c.Type {
	case Numeric:
		return len(c.Floats)
	case Text:
		return len(c.Strings)
	case Timestamp:
		return len(c.Times)
	default:
		return 0
	}
}

// MissingCount returns the number of masked cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// SetMissing marks the cell at row as missing. Numeric cells are also
// poisoned with NaN so a skipped mask check cannot read a stale value.
func (c *Column) SetMissing(row int) {
	c.Missing[row] = true
	if c.Type == Numeric {
		c.Floats[row] = math.NaN()
	}
}

// cellKey returns a canonical string for the cell, used for duplicate-row
// detection. Missing cells share a reserved key distinct from any value.
func (c *Column) cellKey(row int) string {
	if c.Missing[row] {
		return "\x00missing"
	}
	switch c.Type {
	case Numeric:
		return strconv.FormatFloat(c.Floats[row], 'g', -1, 64)
	case Text:
		return c.Strings[row]
	case Timestamp:
		return strconv.FormatInt(c.Times[row], 10)
	default:
		return ""
	}
}

// clone returns a deep copy of the column.
func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	if c.Times != nil {
		out.Times = append([]int64(nil), c.Times...)
	}
	out.Missing = append([]bool(nil), c.Missing...)
	return out
}

// take returns a copy of the column restricted to the given rows, in order.
func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type, Missing: make([]bool, len(rows))}
	switch c.Type {
	case Numeric:
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
	case Text:
		out.Strings = make([]string, len(rows))
		for i, r := range rows {
			out.Strings[i] = c.Strings[r]
		}
	case Timestamp:
		out.Times = make([]int64, len(rows))
		for i, r := range rows {
			out.Times[i] = c.Times[r]
		}
	}
	for i, r := range rows {
		out.Missing[i] = c.Missing[r]
	}
	return out
}

// Table is an ordered collection of equal-length columns with unique names.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New creates a table from the given columns. All columns must have the
// same length and distinct names.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has empty name", i)
		}
		if _, ok := t.index[c.Name]; ok {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		if len(c.Missing) != c.Len() {
			return nil, fmt.Errorf("column %q missing mask has %d entries, want %d", c.Name, len(c.Missing), c.Len())
		}
		t.index[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the shared row count.
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q in table (have %s)", name, strings.Join(t.Names(), ", "))
	}
	return t.cols[i], nil
}

// SetColumn adds the column, replacing any existing column with the same
// name in place. Replacement keeps the original position so repeated joins
// into the same target column stay idempotent.
func (t *Table) SetColumn(c *Column) error {
	if t.rows != c.Len() && len(t.cols) > 0 {
		return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Clone returns a deep copy of the table. Stages that derive new feature
// tables clone first so the input table is never mutated.
func (t *Table) Clone() *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: t.rows}
	for i, c := range t.cols {
		out.cols = append(out.cols, c.clone())
		out.index[c.Name] = i
	}
	return out
}

// Take materializes a new table containing only the given rows, in order.
// Used by the split collaborator to realize train/test partitions.
func (t *Table) Take(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", r, t.rows)
		}
	}
	out := &Table{index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for i, c := range t.cols {
		out.cols = append(out.cols, c.take(rows))
		out.index[c.Name] = i
	}
	return out, nil
}

// Project returns a fresh table holding copies of the named columns in the
// given order. Fails if any name is absent.
func (t *Table) Project(names []string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c.clone())
	}
	return New(cols...)
}

// rowKey returns a canonical string identifying the full row, used for
// exact-duplicate detection. Cells are joined with an unprintable separator
// so adjacent cells cannot collide.
func (t *Table) rowKey(row int) string {
	var b strings.Builder
	for i, c := range t.cols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.cellKey(row))
	}
	return b.String()
}

// MissingCells returns the total number of masked cells across all columns.
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.cols {
		n += c.MissingCount()
	}
	return n
}

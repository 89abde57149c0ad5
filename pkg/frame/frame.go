// Package frame holds the small labelled tables passed between the trends
// gateway, the result cache and the chart builders.
//
// A Frame is an ordered row index plus ordered columns of integer cells,
// which is all the trends provider ever returns: interest scores keyed by
// date, region or related query.
package frame

import (
	"fmt"
	"sort"
)

// Frame is a row-indexed table of integer cells.
type Frame struct {
	IndexName string
	Index     []string
	Columns   []string
	Data      [][]int
}

// New returns an empty frame with the given index name and columns.
func New(indexName string, columns ...string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{
		IndexName: indexName,
		Index:     []string{},
		Columns:   cols,
		Data:      [][]int{},
	}
}

// Empty reports whether f has no rows or no columns. A nil frame is empty.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Index) == 0 || len(f.Columns) == 0
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Index)
}

// AppendRow adds one labelled row. values must match the column count.
func (f *Frame) AppendRow(label string, values ...int) error {
	if len(values) != len(f.Columns) {
		return fmt.Errorf("row %q has %d values, frame has %d columns", label, len(values), len(f.Columns))
	}
	row := make([]int, len(values))
	copy(row, values)
	f.Index = append(f.Index, label)
	f.Data = append(f.Data, row)
	return nil
}

// ColumnIndex returns the position of name or -1.
func (f *Frame) ColumnIndex(name string) int {
	if f == nil {
		return -1
	}
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]int, bool) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]int, len(f.Data))
	for i, row := range f.Data {
		out[i] = row[idx]
	}
	return out, true
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	out := New(f.IndexName, f.Columns...)
	out.Index = append(out.Index, f.Index...)
	for _, row := range f.Data {
		r := make([]int, len(row))
		copy(r, row)
		out.Data = append(out.Data, r)
	}
	return out
}

// Drop returns a copy of f without the named columns. Missing names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	if f == nil {
		return nil
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	var cols []string
	for i, c := range f.Columns {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}

	out := New(f.IndexName, cols...)
	for r, row := range f.Data {
		values := make([]int, len(keep))
		for j, idx := range keep {
			values[j] = row[idx]
		}
		out.Index = append(out.Index, f.Index[r])
		out.Data = append(out.Data, values)
	}
	return out
}

// Filter returns the rows for which keep returns true, in order.
func (f *Frame) Filter(keep func(label string, row []int) bool) *Frame {
	if f == nil {
		return nil
	}
	out := New(f.IndexName, f.Columns...)
	for i, row := range f.Data {
		if keep(f.Index[i], row) {
			r := make([]int, len(row))
			copy(r, row)
			out.Index = append(out.Index, f.Index[i])
			out.Data = append(out.Data, r)
		}
	}
	return out
}

// SortBy returns a copy of f ordered by column. Ties keep their original order.
func (f *Frame) SortBy(column string, descending bool) (*Frame, error) {
	idx := f.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	order := make([]int, f.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := f.Data[order[a]][idx], f.Data[order[b]][idx]
		if descending {
			return va > vb
		}
		return va < vb
	})

	out := New(f.IndexName, f.Columns...)
	for _, i := range order {
		r := make([]int, len(f.Data[i]))
		copy(r, f.Data[i])
		out.Index = append(out.Index, f.Index[i])
		out.Data = append(out.Data, r)
	}
	return out, nil
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if f == nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > f.Len() {
		n = f.Len()
	}
	out := New(f.IndexName, f.Columns...)
	out.Index = append(out.Index, f.Index[:n]...)
	for _, row := range f.Data[:n] {
		r := make([]int, len(row))
		copy(r, row)
		out.Data = append(out.Data, r)
	}
	return out
}

// Records returns one map per row keyed by column name, with the index
// stored under IndexName (or "index" when unnamed).
func (f *Frame) Records() []map[string]interface{} {
	if f == nil {
		return []map[string]interface{}{}
	}
	key := f.indexKey()
	out := make([]map[string]interface{}, 0, f.Len())
	for i, row := range f.Data {
		rec := make(map[string]interface{}, len(row)+1)
		rec[key] = f.Index[i]
		for j, c := range f.Columns {
			rec[c] = row[j]
		}
		out = append(out, rec)
	}
	return out
}

// RecordColumns lists the record keys in display order: index first.
func (f *Frame) RecordColumns() []string {
	if f == nil {
		return nil
	}
	return append([]string{f.indexKey()}, f.Columns...)
}

// Validate checks the shape invariants.
func (f *Frame) Validate() error {
	if f == nil {
		return nil
	}
	if len(f.Data) != len(f.Index) {
		return fmt.Errorf("frame has %d index labels but %d rows", len(f.Index), len(f.Data))
	}
	seen := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		if seen[c] {
			return fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	for i, row := range f.Data {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(f.Columns))
		}
	}
	return nil
}

func (f *Frame) indexKey() string {
	if f.IndexName == "" {
		return "index"
	}
	return f.IndexName
}

// Package stream holds the in-memory data model shared by the diagnostic
// renderers: observed data tables, fitted mixture parameters, component
// identities and visibility masks. Everything here is constructed by the
// fitting pipeline (or loaded from a results store) and consumed read-only.
package stream

import "fmt"

// Model is an opaque handle to the fitted model. The renderers carry it
// through for callers that customise panels afterwards but never invoke it.
type Model interface{}

// Data is an immutable table of named float64 columns of equal length, one
// row per observation. Rows must be pre-sorted by the independent coordinate
// before rendering; that is a caller precondition, not enforced here.
type Data struct {
	columns map[string][]float64
	n       int
}

// NewData builds a table from named columns. All columns must be non-empty
// and of equal length.
func NewData(columns map[string][]float64) (*Data, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("data table requires at least one column")
	}
	n := -1
	for name, vals := range columns {
		if len(vals) == 0 {
			return nil, fmt.Errorf("column %q is empty", name)
		}
		if n == -1 {
			n = len(vals)
		} else if len(vals) != n {
			return nil, fmt.Errorf("column %q has length %d, want %d", name, len(vals), n)
		}
	}
	cols := make(map[string][]float64, len(columns))
	for name, vals := range columns {
		c := make([]float64, len(vals))
		copy(c, vals)
		cols[name] = c
	}
	return &Data{columns: cols, n: n}, nil
}

// Len returns the number of rows.
func (d *Data) Len() int { return d.n }

// Has reports whether the table contains the named column.
func (d *Data) Has(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Column returns the named column. The returned slice is shared; callers
// must not modify it.
func (d *Data) Column(name string) ([]float64, error) {
	vals, ok := d.columns[name]
	if !ok {
		return nil, fmt.Errorf("data table has no column %q", name)
	}
	return vals, nil
}

// Columns returns the column names in unspecified order.
func (d *Data) Columns() []string {
	names := make([]string, 0, len(d.columns))
	for name := range d.columns {
		names = append(names, name)
	}
	return names
}

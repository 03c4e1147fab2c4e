// Package table holds an in-memory dataset: an ordered column list plus the
// rows read from one raw file.
package table

import (
	"fmt"

	"datatrust/pkg/records"
)

// Table is a named dataset. Columns fixes the output order; every row holds a
// key for every column (nil when the value is null).
type Table struct {
	Name    string
	Columns []string
	Rows    []records.Record
}

// New returns an empty table with the given columns.
func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Rename renames columns according to m (old -> new). Columns not in m keep
// their names. Renaming onto an existing column name is an error since the
// row maps could no longer tell the two apart.
func (t *Table) Rename(m map[string]string) error {
	if len(m) == 0 {
		return nil
	}
	next := make([]string, len(t.Columns))
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		n := c
		if to, ok := m[c]; ok && to != "" {
			n = to
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("rename %s: column %q would appear twice", t.Name, n)
		}
		seen[n] = struct{}{}
		next[i] = n
	}
	moved := make([]any, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			if next[i] != c {
				moved[i] = r[c]
				delete(r, c)
			}
		}
		for i, c := range t.Columns {
			if next[i] != c {
				r[next[i]] = moved[i]
			}
		}
	}
	t.Columns = next
	return nil
}

// Package schema declares the column contract a dataset must satisfy once its
// headers have been renamed.
package schema

import (
	"fmt"
	"strings"
)

// Field declares one canonical column.
type Field struct {
	Name string `json:"name" yaml:"name"`
	// Type is one of "string", "float", "int", "bool", "date". It drives the
	// mirror DDL and is the default for a coerce step without "types".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Required means the column must be present in the header. It says nothing
	// about null values, which are handled by the require transform.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// Contract is the expected shape of a dataset after renaming.
type Contract struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// RequiredColumns lists the names of all required fields in declaration order.
func (c Contract) RequiredColumns() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field returns the field named name.
func (c Contract) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// MissingColumnsError reports required columns absent from a dataset header.
type MissingColumnsError struct {
	Dataset string
	Missing []string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s schema invalid: missing %s. Columns present: [%s]",
		e.Dataset, strings.Join(e.Missing, ", "), quoteList(e.Columns))
}

// Check verifies that every required field of c appears in columns. It returns
// a *MissingColumnsError naming the actual columns when one does not.
func (c Contract) Check(columns []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		have[col] = struct{}{}
	}
	var missing []string
	for _, name := range c.RequiredColumns() {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnsError{
		Dataset: c.Name,
		Missing: missing,
		Columns: append([]string(nil), columns...),
	}
}

func quoteList(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = "'" + c + "'"
	}
	return strings.Join(q, ", ")
}

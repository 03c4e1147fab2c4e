// Package records defines the row representation shared by the parser,
// transformers and writers.
package records

import "math"

// Record is a single row keyed by column name. A nil value means null; a
// column that is absent from the map is not part of the row at all.
type Record map[string]any

// IsNull reports whether field is null or missing in r. Empty strings and NaN
// count as null because neither can come out of a valid raw value.
func (r Record) IsNull(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return true
	}
	switch x := v.(type) {
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// Package ddl contains SQLite-specific helpers for generating DDL for the
// trusted-table mirror.
package ddl

import "strings"

// MapType maps a contract field type ("string", "float", "int", "bool",
// "date") into a SQLite column type.
//
// SQLite is dynamically typed, so the mapping only picks affinities:
//   - int, bool (0/1) -> INTEGER
//   - float, number   -> REAL
//   - date            -> TEXT, holding the same text the trusted CSV carries
//   - anything else   -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint", "bool", "boolean":
		return "INTEGER"
	case "float", "number", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}

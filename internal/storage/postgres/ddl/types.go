// Package ddl contains Postgres-specific helpers for generating DDL for the
// trusted-table mirror.
package ddl

import "strings"

// MapType maps a contract field type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint" -> BIGINT
//	"float"/"number"         -> DOUBLE PRECISION
//	"bool"/"boolean"         -> BOOLEAN
//	"date"                   -> TIMESTAMP (trusted dates may carry a time)
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "number", "double":
		return "DOUBLE PRECISION"
	case "bool", "boolean":
		return "BOOLEAN"
	case "date", "timestamp":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

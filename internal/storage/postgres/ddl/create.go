package ddl

import gddl "datatrust/internal/ddl"

// Dialect renders Postgres DDL: double-quoted identifiers, IF NOT EXISTS, and
// NOT NULL forced on primary-key columns.
var Dialect = gddl.Dialect{
	Name:        "postgres ddl",
	Quote:       gddl.QuoteDouble,
	IfNotExists: true,
	PKNotNull:   true,
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement
// for the given table definition.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Build(t, Dialect)
}

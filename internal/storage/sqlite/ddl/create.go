package ddl

import gddl "datatrust/internal/ddl"

// Dialect renders double-quoted identifiers with CREATE TABLE IF NOT EXISTS.
// Primary-key columns keep their declared nullability.
var Dialect = gddl.Dialect{
	Name:        "sqlite ddl",
	Quote:       gddl.QuoteDouble,
	IfNotExists: true,
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement of the form:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  PRIMARY KEY ("pk1", "pk2")
//	);
//
// Dotted names such as "main.trusted_sales" are quoted per segment.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Build(t, Dialect)
}

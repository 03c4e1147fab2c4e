// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE statements for the trusted-table mirror.
//
// Dialect carries the few things that differ between backends: identifier
// quoting, IF NOT EXISTS, and whether primary-key columns are forced NOT NULL.
// Backend packages (internal/storage/<kind>/ddl) supply a Dialect and a type
// mapper; the rendering and the contract-driven inference live here.
package ddl

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect controls how Build renders a TableDef.
type Dialect struct {
	// Name prefixes error messages, e.g. "postgres ddl". Empty means "ddl".
	Name string

	// Quote quotes one identifier segment. Nil emits names as-is.
	Quote func(string) string

	// IfNotExists renders CREATE TABLE IF NOT EXISTS.
	IfNotExists bool

	// PKNotNull forces NOT NULL on primary-key columns and sorts the PRIMARY
	// KEY column list.
	PKNotNull bool
}

// QuoteDouble quotes an identifier with double quotes, doubling any embedded
// quote. Both Postgres and SQLite accept this form.
func QuoteDouble(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef
// with no quoting and no IF NOT EXISTS.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// where NOT NULL is added when Nullable == false. Primary-key columns are
// collected into a trailing PRIMARY KEY (...) clause.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Build(t, Dialect{})
}

// Build renders t according to d.
func Build(t TableDef, d Dialect) (string, error) {
	name := d.Name
	if name == "" {
		name = "ddl"
	}
	quote := d.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}

	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		col := strings.TrimSpace(c.Name)
		if col == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", name, col)
		}

		var sb strings.Builder
		sb.WriteString(quote(col))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable || (d.PKNotNull && c.PrimaryKey) {
			sb.WriteString(" NOT NULL")
		}

		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			// Default is emitted as raw SQL expression.
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(col))
		}
	}

	if len(pks) > 0 {
		if d.PKNotNull {
			sort.Strings(pks)
		}
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	create := "CREATE TABLE "
	if d.IfNotExists {
		create = "CREATE TABLE IF NOT EXISTS "
	}
	return fmt.Sprintf(
		"%s%s (\n  %s\n);",
		create,
		quoteFQN(fqn, quote),
		strings.Join(cols, ",\n  "),
	), nil
}

// quoteFQN quotes each dotted segment of fqn. Empty segments are dropped.
func quoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

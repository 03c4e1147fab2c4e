package ddl

import (
	"fmt"
	"strings"

	"datatrust/internal/schema"
)

// FromContract builds a TableDef for a trusted table. Column order follows
// columns (the trusted file's header). Each column is typed by mapType using
// the logical type of the contract field with the same name; columns the
// contract does not declare get mapType(""). Every column is nullable since
// trusted files keep nulls that no filter removed.
func FromContract(fqn string, columns []string, c schema.Contract, mapType func(string) string) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, fmt.Errorf("ddl: missing table")
	}
	if len(columns) == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", fqn)
	}
	defs := make([]ColumnDef, 0, len(columns))
	for _, name := range columns {
		f, _ := c.Field(name)
		defs = append(defs, ColumnDef{
			Name:     name,
			SQLType:  mapType(f.Type),
			Nullable: true,
		})
	}
	return TableDef{FQN: fqn, Columns: defs}, nil
}

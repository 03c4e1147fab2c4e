package ddl

import (
	"fmt"

	gddl "datatrust/internal/ddl"
	"datatrust/internal/storage"
)

// FromSpec infers a Postgres table definition for a mirrored trusted table.
func FromSpec(spec storage.TableSpec) (gddl.TableDef, error) {
	td, err := gddl.FromContract(spec.Table, spec.Columns, spec.Contract, MapType)
	if err != nil {
		return gddl.TableDef{}, fmt.Errorf("postgres %w", err)
	}
	return td, nil
}

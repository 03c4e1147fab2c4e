package ddl

import (
	"fmt"

	gddl "datatrust/internal/ddl"
	"datatrust/internal/storage"
)

// FromSpec derives a SQLite TableDef for a mirrored trusted table.
func FromSpec(spec storage.TableSpec) (gddl.TableDef, error) {
	td, err := gddl.FromContract(spec.Table, spec.Columns, spec.Contract, MapType)
	if err != nil {
		return gddl.TableDef{}, fmt.Errorf("sqlite %w", err)
	}
	return td, nil
}

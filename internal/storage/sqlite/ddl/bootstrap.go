package ddl

import (
	"context"
	"fmt"

	gddl "datatrust/internal/ddl"
	"datatrust/internal/storage"
)

// EnsureTable renders def and executes it on repo.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	stmt, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite ddl: create %s: %w", def.FQN, err)
	}
	return nil
}

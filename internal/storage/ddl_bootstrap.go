package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper is a backend-specific function that:
//   - infers a table definition from the TableSpec, and
//   - applies the appropriate DDL via repo.Exec (CREATE TABLE IF NOT EXISTS).
//
// Backends register their implementation for a storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, spec TableSpec) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for spec.Kind and invokes it.
// Callers pass the already-open Repository and stay backend-agnostic.
func EnsureTable(ctx context.Context, spec TableSpec, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[spec.Kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", spec.Kind)
	}
	return fn(ctx, repo, spec)
}

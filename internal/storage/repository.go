// Package storage contains the storage-agnostic contracts for the optional
// trusted-table mirror: the Repository interface, a kind-keyed factory that
// backends register with, DDL bootstrapping, and a batched loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"datatrust/internal/schema"
)

// Repository is an open connection to one destination table.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to columns and returns the number of
	// rows the backend reports as inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Truncate removes every row from the configured table.
	Truncate(ctx context.Context) error

	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind    string   // "sqlite" or "postgres"
	DSN     string   // driver connection string
	Table   string   // possibly schema-qualified table name
	Columns []string // ordered destination columns
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TableSpec describes the table a trusted dataset is mirrored into.
type TableSpec struct {
	Kind     string
	Table    string
	Columns  []string
	Contract schema.Contract
}

package storage

import (
	"context"
	"fmt"

	"datatrust/internal/table"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is used when MirrorOptions.BatchSize is zero.
const DefaultBatchSize = 1000

// MirrorOptions configures one Mirror call.
type MirrorOptions struct {
	Spec       TableSpec
	DSN        string
	AutoCreate bool
	Replace    bool
	BatchSize  int
}

// MirrorResult reports what Mirror wrote.
type MirrorResult struct {
	Rows    int64
	Batches int64
}

// Mirror copies every row of t into the table named by opt.Spec. It opens the
// repository, optionally creates the table and truncates it, then streams the
// rows through LoadBatches using the backend's CopyFrom.
func Mirror(ctx context.Context, opt MirrorOptions, t *table.Table) (MirrorResult, error) {
	spec := opt.Spec
	if len(spec.Columns) == 0 {
		spec.Columns = t.Columns
	}
	repo, err := New(ctx, Config{Kind: spec.Kind, DSN: opt.DSN, Table: spec.Table, Columns: spec.Columns})
	if err != nil {
		return MirrorResult{}, err
	}
	defer repo.Close()

	if opt.AutoCreate {
		if err := EnsureTable(ctx, spec, repo); err != nil {
			return MirrorResult{}, fmt.Errorf("mirror %s: ensure table: %w", spec.Table, err)
		}
	}
	if opt.Replace {
		if err := repo.Truncate(ctx); err != nil {
			return MirrorResult{}, fmt.Errorf("mirror %s: truncate: %w", spec.Table, err)
		}
	}

	size := opt.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	var res MirrorResult
	g, gctx := errgroup.WithContext(ctx)
	in := make(chan []any, size)

	g.Go(func() error {
		defer close(in)
		for _, r := range t.Rows {
			row := make([]any, len(spec.Columns))
			for i, c := range spec.Columns {
				row[i] = r[c]
			}
			select {
			case in <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Rows, res.Batches, err = LoadBatches(gctx, spec.Table, spec.Columns, in, size, repo.CopyFrom)
		return err
	})

	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("mirror %s: %w", spec.Table, err)
	}
	return res, nil
}

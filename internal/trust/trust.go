// Package trust runs the raw-to-trusted pipelines: each dataset is loaded from
// its raw file, renamed to canonical columns, checked against its contract,
// pushed through its transform steps and written as a trusted file, with an
// optional copy into a mirror database.
//
// Datasets run one after another in configuration order. The first failure
// stops the run; trusted files already written stay on disk.
package trust

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"datatrust/internal/config"
	"datatrust/internal/datasource"
	"datatrust/internal/datasource/file"
	"datatrust/internal/metrics"
	"datatrust/internal/parser"
	csvparser "datatrust/internal/parser/csv"
	"datatrust/internal/schema"
	"datatrust/internal/storage"
	"datatrust/internal/table"
	"datatrust/internal/transformer"
)

// Runner executes the datasets of one Config.
type Runner struct {
	// Job labels metrics. Empty means config.DefaultJob.
	Job string

	// Out receives the console report ("Sales raw rows: N"). Nil discards it.
	Out io.Writer

	// Storage configures the optional mirror. An empty Kind disables it.
	Storage config.Storage

	// Now is the clock used by "now" filter values. Nil means time.Now.
	Now func() time.Time

	// Verbose enables per-step diagnostics on the standard logger.
	Verbose bool
}

// Result summarizes one dataset run.
type Result struct {
	Dataset string
	Raw     int
	Trusted int
	// NullKept counts trusted rows that still hold a null in a required
	// contract column (Inventory rows whose stock failed to coerce).
	NullKept int
	Mirrored int64
}

// Run executes every dataset in order and returns the per-dataset results
// gathered so far, stopping at the first error.
func (r *Runner) Run(ctx context.Context, datasets []config.Dataset) ([]Result, error) {
	results := make([]Result, 0, len(datasets))
	for _, ds := range datasets {
		res, err := r.RunDataset(ctx, ds)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunDataset executes a single pipeline:
// Loaded -> Renamed -> Checked -> Transformed -> Persisted (-> Mirrored).
func (r *Runner) RunDataset(ctx context.Context, ds config.Dataset) (Result, error) {
	res := Result{Dataset: ds.Name}
	label := ds.Label()

	var t *table.Table
	err := r.step(ds.Name, "load", func() error {
		var err error
		t, err = load(ctx, ds)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("%s: %w", label, err)
	}
	res.Raw = t.Len()
	r.printf("%s raw rows: %d\n", label, res.Raw)
	metrics.RecordRow(r.job(), ds.Name, "raw", int64(res.Raw))

	err = r.step(ds.Name, "rename", func() error {
		return t.Rename(ds.Parser.Options.StringMap("header_map"))
	})
	if err != nil {
		return res, fmt.Errorf("%s: %w", label, err)
	}

	contract := ds.Contract
	if contract.Name == "" {
		contract.Name = label
	}
	err = r.step(ds.Name, "schema", func() error {
		return contract.Check(t.Columns)
	})
	if err != nil {
		var mce *schema.MissingColumnsError
		if errors.As(err, &mce) {
			return res, err
		}
		return res, fmt.Errorf("%s: %w", label, err)
	}

	steps, err := transformer.Build(ds.Transform, contract, r.Now)
	if err != nil {
		return res, fmt.Errorf("%s: %w", label, err)
	}
	for _, s := range steps {
		before := t.Len()
		_ = r.step(ds.Name, s.Kind, func() error {
			t.Rows = s.Apply(t.Rows)
			return nil
		})
		if r.Verbose {
			log.Printf("trust: %s: %s kept %d of %d rows", ds.Name, s.Kind, t.Len(), before)
		}
	}
	res.Trusted = t.Len()

	res.NullKept = countNulls(t, contract.RequiredColumns())
	if res.NullKept > 0 {
		log.Printf("trust: %s: %d trusted rows keep a null required value", ds.Name, res.NullKept)
	}

	err = r.step(ds.Name, "write", func() error {
		return write(ctx, ds.Target, t)
	})
	if err != nil {
		return res, fmt.Errorf("%s: %w", label, err)
	}
	r.printf("%s trusted rows: %d\n", label, res.Trusted)
	metrics.RecordRow(r.job(), ds.Name, "trusted", int64(res.Trusted))
	metrics.RecordRow(r.job(), ds.Name, "dropped", int64(res.Raw-res.Trusted))

	if r.Storage.Kind != "" {
		err = r.step(ds.Name, "mirror", func() error {
			m, err := r.mirror(ctx, ds, contract, t)
			res.Mirrored = m.Rows
			metrics.RecordBatches(r.job(), ds.Name, m.Batches)
			return err
		})
		if err != nil {
			return res, fmt.Errorf("%s: %w", label, err)
		}
		metrics.RecordRow(r.job(), ds.Name, "mirrored", res.Mirrored)
	}
	return res, nil
}

// buildParser maps parser configuration into a concrete parser implementation.
func buildParser(ds config.Dataset) (parser.Parser, error) {
	switch ds.Parser.Kind {
	case "", "csv":
		return csvparser.NewParser(csvparser.FromConfig(ds.Parser, ds.Source)), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", ds.Parser.Kind)
	}
}

func load(ctx context.Context, ds config.Dataset) (*table.Table, error) {
	p, err := buildParser(ds)
	if err != nil {
		return nil, err
	}
	var src datasource.Source = file.NewLocal(ds.Source.Path)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open raw file: %w", err)
	}
	defer rc.Close()

	t, err := p.Parse(rc, ds.Name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ds.Source.Path, err)
	}
	return t, nil
}

func write(ctx context.Context, tgt config.Target, t *table.Table) error {
	var sink datasource.Sink = file.NewTarget(tgt.Path)
	w, err := sink.Create(ctx)
	if err != nil {
		return fmt.Errorf("create trusted file: %w", err)
	}
	if err := csvparser.WriteTable(w, t, tgt.Encoding); err != nil {
		_ = w.Abort()
		return fmt.Errorf("write %s: %w", tgt.Path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", tgt.Path, err)
	}
	return nil
}

func (r *Runner) mirror(ctx context.Context, ds config.Dataset, c schema.Contract, t *table.Table) (storage.MirrorResult, error) {
	db := r.Storage.DB
	return storage.Mirror(ctx, storage.MirrorOptions{
		Spec: storage.TableSpec{
			Kind:     r.Storage.Kind,
			Table:    db.TablePrefix + ds.Name,
			Columns:  t.Columns,
			Contract: c,
		},
		DSN:        db.DSN,
		AutoCreate: db.AutoCreateTable,
		Replace:    db.Replace,
		BatchSize:  db.BatchSize,
	}, t)
}

// step times fn and records it under "<dataset>.<stage>".
func (r *Runner) step(dataset, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(r.job(), dataset+"."+stage, err, d)
	if r.Verbose {
		log.Printf("trust: %s.%s took %s err=%v", dataset, stage, d.Truncate(time.Microsecond), err)
	}
	return err
}

func (r *Runner) job() string {
	if r.Job == "" {
		return config.DefaultJob
	}
	return r.Job
}

func (r *Runner) printf(format string, a ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, a...)
	}
}

func countNulls(t *table.Table, cols []string) int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range cols {
			if row.IsNull(c) {
				n++
				break
			}
		}
	}
	return n
}

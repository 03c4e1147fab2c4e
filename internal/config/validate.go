// Package config provides configuration models and helpers for the trust job.
//
// This file adds a lightweight linter for Config values. It performs static
// checks and returns a list of issues (errors and warnings) that the CLI
// prints before running.
package config

import (
	"fmt"
	"slices"
	"strings"

	"datatrust/internal/transformer/builtin"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "datasets[1].target.path").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Config. It does not mutate cfg.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	if len(cfg.Datasets) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "datasets",
			Message:  "at least one dataset is required",
		})
	}

	names := map[string]int{}
	targets := map[string]int{}
	for i, ds := range cfg.Datasets {
		base := fmt.Sprintf("datasets[%d]", i)
		issues = append(issues, validateDataset(base, ds)...)

		if prev, dup := names[ds.Name]; dup && ds.Name != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     base + ".name",
				Message:  fmt.Sprintf("name %q already used by datasets[%d]", ds.Name, prev),
			})
		}
		names[ds.Name] = i

		if prev, dup := targets[ds.Target.Path]; dup && ds.Target.Path != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     base + ".target.path",
				Message:  fmt.Sprintf("target %q already written by datasets[%d]", ds.Target.Path, prev),
			})
		}
		targets[ds.Target.Path] = i
	}

	issues = append(issues, validateStorage(cfg.Storage)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

func validateDataset(base string, ds Dataset) []Issue {
	var issues []Issue

	if strings.TrimSpace(ds.Name) == "" {
		issues = append(issues, Issue{SeverityError, base + ".name", "dataset name must not be empty"})
	}
	if strings.TrimSpace(ds.Source.Path) == "" {
		issues = append(issues, Issue{SeverityError, base + ".source.path", "source path must not be empty"})
	}
	if strings.TrimSpace(ds.Target.Path) == "" {
		issues = append(issues, Issue{SeverityError, base + ".target.path", "target path must not be empty"})
	}
	if ds.Source.Path != "" && ds.Source.Path == ds.Target.Path {
		issues = append(issues, Issue{SeverityError, base + ".target.path", "target must differ from source"})
	}
	for _, enc := range []struct{ path, name string }{
		{base + ".source.encoding", ds.Source.Encoding},
		{base + ".target.encoding", ds.Target.Encoding},
	} {
		if !knownEncoding(enc.name) {
			issues = append(issues, Issue{SeverityError, enc.path, fmt.Sprintf("unsupported encoding %q", enc.name)})
		}
	}

	switch ds.Parser.Kind {
	case "", "csv":
	default:
		issues = append(issues, Issue{SeverityError, base + ".parser.kind",
			fmt.Sprintf("unknown parser kind %q; only csv is supported", ds.Parser.Kind)})
	}
	switch hc := ds.Parser.Options.String("header_case", ""); hc {
	case "", "lower":
	default:
		issues = append(issues, Issue{SeverityError, base + ".parser.options.header_case",
			fmt.Sprintf("unknown header_case %q; want \"lower\" or empty", hc)})
	}

	if len(ds.Contract.RequiredColumns()) == 0 {
		issues = append(issues, Issue{SeverityWarning, base + ".contract",
			"contract has no required fields; the header will not be checked"})
	}

	issues = append(issues, validateTransforms(base, ds.Transform)...)
	return issues
}

func validateTransforms(base string, ts []Transform) []Issue {
	var issues []Issue

	if len(ts) == 0 {
		issues = append(issues, Issue{SeverityWarning, base + ".transform",
			"no transforms configured; raw rows will be written as-is"})
		return issues
	}

	for i, t := range ts {
		path := fmt.Sprintf("%s.transform[%d]", base, i)
		if t.Kind != "" && !slices.Contains(builtin.Kinds, t.Kind) {
			issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown transform kind %q", t.Kind)})
			continue
		}
		switch t.Kind {
		case "normalize":
		case "coerce":
			if len(t.Options.StringMap("types")) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.types", "coerce has no types; contract field types are used"})
			}
		case "filter":
			if t.Options.Any("rules") == nil {
				issues = append(issues, Issue{SeverityWarning, path + ".options.rules", "filter has no rules; it will keep every row"})
				break
			}
			var rules []struct {
				Field string `json:"field"`
				Op    string `json:"op"`
				Value any    `json:"value"`
			}
			if err := t.Options.Decode("rules", &rules); err != nil {
				issues = append(issues, Issue{SeverityError, path + ".options.rules", err.Error()})
				break
			}
			for j, r := range rules {
				rp := fmt.Sprintf("%s.options.rules[%d]", path, j)
				switch {
				case strings.TrimSpace(r.Field) == "":
					issues = append(issues, Issue{SeverityError, rp + ".field", "rule field must not be empty"})
				case !slices.Contains(builtin.Ops, r.Op):
					issues = append(issues, Issue{SeverityError, rp + ".op", fmt.Sprintf("unknown operator %q", r.Op)})
				case r.Value == nil:
					issues = append(issues, Issue{SeverityError, rp + ".value", "rule value must not be null"})
				}
			}
		case "require":
			if len(t.Options.StringSlice("fields")) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.fields", "require has no fields; contract required fields are used"})
			}
		case "dedup":
			if len(t.Options.StringSlice("keys")) == 0 {
				issues = append(issues, Issue{SeverityError, path + ".options.keys", "dedup requires at least one key"})
			}
			switch p := strings.ToLower(t.Options.String("policy", "")); p {
			case "", "keep-first", "keep-last", "most-complete":
			default:
				issues = append(issues, Issue{SeverityError, path + ".options.policy", fmt.Sprintf("unknown dedup policy %q", p)})
			}
		case "":
			issues = append(issues, Issue{SeverityError, path + ".kind", "transform kind must not be empty"})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch s.Kind {
	case "":
		return nil
	case "sqlite", "postgres":
	default:
		issues = append(issues, Issue{SeverityError, "storage.kind",
			fmt.Sprintf("unknown storage kind %q; want sqlite or postgres", s.Kind)})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty"})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "storage.db.batch_size", "batch_size must not be negative"})
	}
	if !s.DB.AutoCreateTable {
		issues = append(issues, Issue{SeverityWarning, "storage.db.auto_create_table",
			"auto_create_table is false; mirror tables must already exist"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none", "pushgateway", "datadog":
		return nil
	default:
		return []Issue{{SeverityWarning, "metrics.backend",
			fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend)}}
	}
}

func knownEncoding(name string) bool {
	switch strings.ToLower(name) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1", "utf-8", "utf8":
		return true
	}
	return false
}

package transformer

import (
	"fmt"
	"strings"
	"time"

	"datatrust/internal/config"
	"datatrust/internal/schema"
	"datatrust/internal/transformer/builtin"
)

// Build turns a dataset's transform list into Steps. The contract supplies
// defaults: coerce without "types" uses the contract's typed fields, and
// require without "fields" uses its required fields. now resolves the "now"
// filter value; nil means time.Now.
func Build(ts []config.Transform, contract schema.Contract, now func() time.Time) (Steps, error) {
	steps := make(Steps, 0, len(ts))
	for i, t := range ts {
		kind := strings.ToLower(strings.TrimSpace(t.Kind))
		var tr Transformer
		switch kind {
		case "normalize":
			tr = builtin.Normalize{
				Fields:      t.Options.StringSlice("fields"),
				EmptyAsNull: t.Options.Bool("empty_as_null", false),
			}
		case "coerce":
			types := t.Options.StringMap("types")
			if len(types) == 0 {
				types = contractTypes(contract)
			}
			tr = builtin.Coerce{Types: types, Layout: t.Options.String("layout", "")}
		case "filter":
			var rules []builtin.Rule
			if err := t.Options.Decode("rules", &rules); err != nil {
				return nil, fmt.Errorf("transform[%d] filter: %w", i, err)
			}
			for _, r := range rules {
				if err := r.Validate(); err != nil {
					return nil, fmt.Errorf("transform[%d] filter: %w", i, err)
				}
			}
			tr = builtin.Filter{Rules: rules, Now: now}
		case "require":
			fields := t.Options.StringSlice("fields")
			if len(fields) == 0 {
				fields = contract.RequiredColumns()
			}
			tr = builtin.Require{Fields: fields}
		case "dedup":
			keys := t.Options.StringSlice("keys")
			if len(keys) == 0 {
				return nil, fmt.Errorf("transform[%d] dedup: keys are required", i)
			}
			tr = builtin.DeDup{
				Keys:         keys,
				Policy:       t.Options.String("policy", "keep-first"),
				PreferFields: t.Options.StringSlice("prefer_fields"),
			}
		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, t.Kind)
		}
		steps = append(steps, Step{Kind: kind, Transformer: tr})
	}
	return steps, nil
}

// contractTypes maps each non-string contract field to its type.
func contractTypes(c schema.Contract) map[string]string {
	out := map[string]string{}
	for _, f := range c.Fields {
		switch strings.ToLower(f.Type) {
		case "", "string", "text":
		default:
			out[f.Name] = strings.ToLower(f.Type)
		}
	}
	return out
}

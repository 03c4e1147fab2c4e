package transformer

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"datatrust/internal/config"
	"datatrust/internal/schema"
	"datatrust/internal/transformer/builtin"
	"datatrust/pkg/records"
)

func TestBuild_DefaultSales(t *testing.T) {
	t.Parallel()

	sales := config.Default().Datasets[0]
	steps, err := Build(sales.Transform, sales.Contract, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var kinds []string
	for _, s := range steps {
		kinds = append(kinds, s.Kind)
	}
	if want := []string{"coerce", "filter", "require", "dedup"}; !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds=%v; want %v", kinds, want)
	}
	f, ok := steps[1].Transformer.(builtin.Filter)
	if !ok || len(f.Rules) != 3 {
		t.Fatalf("filter step = %#v", steps[1].Transformer)
	}
	if f.Rules[2].Value != "now" || f.Rules[0].Op != ">=" {
		t.Fatalf("rules decoded wrong: %+v", f.Rules)
	}
	d := steps[3].Transformer.(builtin.DeDup)
	if d.Policy != "keep-last" || len(d.Keys) != 3 {
		t.Fatalf("dedup = %+v", d)
	}
}

/*
TestBuild_ContractDefaults verifies that coerce and require fall back to the
contract when their options are empty.
*/
func TestBuild_ContractDefaults(t *testing.T) {
	t.Parallel()

	c := schema.Contract{Fields: []schema.Field{
		{Name: "id", Type: "string", Required: true},
		{Name: "qty", Type: "float", Required: true},
		{Name: "note"},
	}}
	steps, err := Build([]config.Transform{{Kind: "coerce"}, {Kind: "Require"}}, c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	co := steps[0].Transformer.(builtin.Coerce)
	if !reflect.DeepEqual(co.Types, map[string]string{"qty": "float"}) {
		t.Fatalf("coerce types=%v", co.Types)
	}
	rq := steps[1].Transformer.(builtin.Require)
	if !reflect.DeepEqual(rq.Fields, []string{"id", "qty"}) {
		t.Fatalf("require fields=%v", rq.Fields)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   config.Transform
		want string
	}{
		{"unknown", config.Transform{Kind: "pivot"}, `unknown kind "pivot"`},
		{"dedup_no_keys", config.Transform{Kind: "dedup"}, "keys are required"},
		{"bad_op", config.Transform{Kind: "filter", Options: config.Options{
			"rules": []any{map[string]any{"field": "a", "op": "~", "value": 1}},
		}}, `unknown op "~"`},
		{"bad_rules_shape", config.Transform{Kind: "filter", Options: config.Options{
			"rules": "revenue >= 0",
		}}, "options \"rules\""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Build([]config.Transform{tc.in}, schema.Contract{}, nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v; want containing %q", err, tc.want)
			}
		})
	}
}

/*
TestBuild_NowIsInjected verifies that the filter step resolves "now" through
the supplied clock.
*/
func TestBuild_NowIsInjected(t *testing.T) {
	t.Parallel()

	clock := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	steps, err := Build([]config.Transform{{Kind: "filter", Options: config.Options{
		"rules": []any{map[string]any{"field": "d", "op": "<=", "value": "now"}},
	}}}, schema.Contract{}, func() time.Time { return clock })
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	in := []records.Record{
		{"d": time.Date(2019, 6, 1, 0, 0, 0, 0, time.Local)},
		{"d": time.Date(2021, 6, 1, 0, 0, 0, 0, time.Local)},
	}
	if out := steps[0].Apply(in); len(out) != 1 {
		t.Fatalf("len(out)=%d; want 1", len(out))
	}
}

// TestBuild_AllKinds builds one step of every kind the validator accepts.
func TestBuild_AllKinds(t *testing.T) {
	t.Parallel()

	opts := map[string]config.Options{
		"filter": {"rules": []any{map[string]any{"field": "a", "op": ">", "value": 0}}},
		"dedup":  {"keys": []any{"a"}},
	}
	var ts []config.Transform
	for _, k := range builtin.Kinds {
		ts = append(ts, config.Transform{Kind: k, Options: opts[k]})
	}
	steps, err := Build(ts, schema.Contract{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(steps) != len(builtin.Kinds) {
		t.Fatalf("len(steps)=%d; want %d", len(steps), len(builtin.Kinds))
	}
	for i, s := range steps {
		if s.Kind != builtin.Kinds[i] {
			t.Fatalf("steps[%d].Kind=%q; want %q", i, s.Kind, builtin.Kinds[i])
		}
	}
}

// TestBuild_DedupDefaultsToKeepFirst covers a dedup step without a policy.
func TestBuild_DedupDefaultsToKeepFirst(t *testing.T) {
	t.Parallel()

	steps, err := Build([]config.Transform{{Kind: "dedup", Options: config.Options{
		"keys": []any{"id"},
	}}}, schema.Contract{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d := steps[0].Transformer.(builtin.DeDup); d.Policy != "keep-first" {
		t.Fatalf("policy=%q; want keep-first", d.Policy)
	}
	in := []records.Record{{"id": "1", "n": "a"}, {"id": "1", "n": "b"}}
	out := steps[0].Apply(in)
	if len(out) != 1 || out[0]["n"] != "a" {
		t.Fatalf("out=%v; want first row", out)
	}
}

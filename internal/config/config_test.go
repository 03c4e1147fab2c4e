package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// -----------------------------------------------------------------------------
// Config decoding tests
// -----------------------------------------------------------------------------

func TestConfig_DecodeJSON(t *testing.T) {
	t.Parallel()

	const js = `{
	  "job": "nightly_trust",
	  "datasets": [{
	    "name": "regions",
	    "title": "Regions",
	    "source": { "path": "in/regions.csv", "encoding": "latin1" },
	    "parser": { "kind": "csv", "options": { "header_map": { "Region ID": "region_id" } } },
	    "contract": { "name": "Regions", "fields": [{ "name": "region_id", "type": "string", "required": true }] },
	    "transform": [
	      { "kind": "require", "options": { "fields": ["region_id"] } },
	      { "kind": "dedup", "options": { "keys": ["region_id"], "policy": "keep-first" } }
	    ],
	    "target": { "path": "out/regions.csv" }
	  }],
	  "storage": { "kind": "sqlite", "db": { "dsn": "trusted.db", "table_prefix": "t_", "auto_create_table": true, "replace": true, "batch_size": 500 } },
	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://gw:9091" }
	}`

	var cfg Config
	if err := json.Unmarshal([]byte(js), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Job != "nightly_trust" {
		t.Fatalf("Job = %q", cfg.Job)
	}
	if len(cfg.Datasets) != 1 {
		t.Fatalf("Datasets len = %d, want 1", len(cfg.Datasets))
	}
	ds := cfg.Datasets[0]
	if ds.Source.Path != "in/regions.csv" || ds.Source.Encoding != "latin1" {
		t.Fatalf("Source = %+v", ds.Source)
	}
	if got := ds.Parser.Options.StringMap("header_map"); got["Region ID"] != "region_id" {
		t.Fatalf("header_map = %v", got)
	}
	if got := ds.Contract.RequiredColumns(); !reflect.DeepEqual(got, []string{"region_id"}) {
		t.Fatalf("RequiredColumns = %v", got)
	}
	if got := ds.Transform[1].Options.StringSlice("keys"); !reflect.DeepEqual(got, []string{"region_id"}) {
		t.Fatalf("dedup keys = %v", got)
	}
	if cfg.Storage.DB.TablePrefix != "t_" || cfg.Storage.DB.BatchSize != 500 || !cfg.Storage.DB.Replace {
		t.Fatalf("Storage.DB = %+v", cfg.Storage.DB)
	}
	if cfg.Metrics.PushgatewayURL != "http://gw:9091" {
		t.Fatalf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	const y = `
job: yaml_job
datasets:
  - name: inventory
    title: Inventory
    source: { path: raw/inv.csv }
    parser:
      kind: csv
      options:
        trim_headers: true
        header_case: lower
        header_map: { "product id": product_id, stock_level: stock }
    contract:
      name: Inventory
      fields:
        - { name: product_id, required: true }
        - { name: stock, type: float, required: true }
    transform:
      - kind: filter
        options:
          rules:
            - { field: stock, op: ">=", value: 0, keep_null: true }
    target: { path: trusted/inv.csv }
`
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(y), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Job != "yaml_job" {
		t.Fatalf("Job = %q", cfg.Job)
	}
	ds := cfg.Datasets[0]
	if !ds.Parser.Options.Bool("trim_headers", false) || ds.Parser.Options.String("header_case", "") != "lower" {
		t.Fatalf("parser options = %v", ds.Parser.Options)
	}
	if got := ds.Parser.Options.StringMap("header_map"); got["product id"] != "product_id" {
		t.Fatalf("header_map = %v", got)
	}

	var rules []struct {
		Field    string `json:"field"`
		Op       string `json:"op"`
		Value    any    `json:"value"`
		KeepNull bool   `json:"keep_null"`
	}
	if err := ds.Transform[0].Options.Decode("rules", &rules); err != nil {
		t.Fatalf("Decode rules: %v", err)
	}
	if len(rules) != 1 || rules[0].Field != "stock" || rules[0].Op != ">=" || !rules[0].KeepNull {
		t.Fatalf("rules = %+v", rules)
	}
	if v, ok := rules[0].Value.(float64); !ok || v != 0 {
		t.Fatalf("rule value = %#v", rules[0].Value)
	}
	if cfg.Metrics.Backend != "none" {
		t.Fatalf("Metrics.Backend = %q, want default none", cfg.Metrics.Backend)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Job != DefaultJob || len(cfg.Datasets) != 5 {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load(missing) = nil error")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"datasets": 3}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("Load(bad) = nil error")
	}
}

// -----------------------------------------------------------------------------
// Default job
// -----------------------------------------------------------------------------

func TestDefault_OrderAndPaths(t *testing.T) {
	t.Parallel()

	cfg := Default()
	want := []struct{ name, src, dst string }{
		{"sales", SalesRaw, SalesTrusted},
		{"customers", CustomersRaw, CustomersTrusted},
		{"products", ProductsRaw, ProductsTrusted},
		{"inventory", InventoryRaw, InventoryTrusted},
		{"regions", RegionsRaw, RegionsTrusted},
	}
	if len(cfg.Datasets) != len(want) {
		t.Fatalf("Datasets len = %d, want %d", len(cfg.Datasets), len(want))
	}
	for i, w := range want {
		ds := cfg.Datasets[i]
		if ds.Name != w.name || ds.Source.Path != w.src || ds.Target.Path != w.dst {
			t.Errorf("datasets[%d] = %s %s -> %s, want %s %s -> %s",
				i, ds.Name, ds.Source.Path, ds.Target.Path, w.name, w.src, w.dst)
		}
		if ds.Source.Encoding != "latin1" {
			t.Errorf("datasets[%d] source encoding = %q, want latin1", i, ds.Source.Encoding)
		}
	}

	if issues := Validate(cfg); HasErrors(issues) {
		t.Fatalf("Default() has validation errors: %v", issues)
	}
}

func TestDefault_DedupPolicies(t *testing.T) {
	t.Parallel()

	policies := map[string]string{}
	for _, ds := range Default().Datasets {
		for _, tr := range ds.Transform {
			if tr.Kind == "dedup" {
				policies[ds.Name] = tr.Options.String("policy", "")
			}
		}
	}
	want := map[string]string{
		"sales":     "keep-last",
		"customers": "keep-first",
		"products":  "keep-first",
		"inventory": "keep-first",
		"regions":   "keep-first",
	}
	if !reflect.DeepEqual(policies, want) {
		t.Fatalf("dedup policies = %v, want %v", policies, want)
	}
}

// -----------------------------------------------------------------------------
// Options helper tests
// -----------------------------------------------------------------------------

func TestOptions_TypedAccessors(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":  "x",
		"b":  true,
		"r":  ";",
		"m":  map[string]any{"A": "a", "X": 1},
		"ms": map[string]string{"B": "b"},
		"mo": Options{"C": "c", "Y": true}, // yaml.v3 nested object
		"l":  []any{"alpha", 3, "beta"},
	}

	if got := o.String("s", "d"); got != "x" {
		t.Errorf("String = %q", got)
	}
	if got := o.String("b", "d"); got != "d" {
		t.Errorf("String(non-string) = %q, want default", got)
	}
	if !o.Bool("b", false) || o.Bool("missing", false) {
		t.Errorf("Bool mismatch")
	}
	if o.Rune("r", ',') != ';' || o.Rune("missing", ',') != ',' {
		t.Errorf("Rune mismatch")
	}
	if got := o.StringMap("m"); !reflect.DeepEqual(got, map[string]string{"A": "a"}) {
		t.Errorf("StringMap(m) = %v", got)
	}
	if got := o.StringMap("ms"); !reflect.DeepEqual(got, map[string]string{"B": "b"}) {
		t.Errorf("StringMap(ms) = %v", got)
	}
	if got := o.StringMap("mo"); !reflect.DeepEqual(got, map[string]string{"C": "c"}) {
		t.Errorf("StringMap(mo) = %v", got)
	}
	if got := o.StringMap("missing"); got == nil || len(got) != 0 {
		t.Errorf("StringMap(missing) = %#v, want empty non-nil", got)
	}
	if got := o.StringSlice("l"); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("StringSlice = %v", got)
	}
	if o.StringSlice("missing") != nil {
		t.Errorf("StringSlice(missing) != nil")
	}
	if o.Any("missing") != nil {
		t.Errorf("Any(missing) != nil")
	}
}

func TestOptions_UnmarshalJSON_NullYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	var tr Transform
	if err := json.Unmarshal([]byte(`{"kind":"normalize","options":null}`), &tr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tr.Options == nil || len(tr.Options) != 0 {
		t.Fatalf("Options = %#v, want empty non-nil", tr.Options)
	}
}

// Package config defines the configuration model for the trust job: which raw
// files are read, how their headers are renamed, which transforms run, where
// the trusted files go, and the optional database mirror and metrics backend.
//
// The model decodes from JSON or YAML (see Load). When no file is given, the
// job runs Default(), the five built-in pipelines.
//
// Example (trimmed):
//
//	{
//	  "job": "data_trust",
//	  "datasets": [{
//	    "name": "regions", "title": "Regions",
//	    "source":   { "path": "data/raw/regions_raw.csv", "encoding": "latin1" },
//	    "parser":   { "kind": "csv", "options": { "header_map": { "Region ID": "region_id" } } },
//	    "contract": { "name": "Regions", "fields": [{ "name": "region_id", "required": true }] },
//	    "transform": [
//	      { "kind": "require", "options": { "fields": ["region_id"] } },
//	      { "kind": "dedup",   "options": { "keys": ["region_id"], "policy": "keep-first" } }
//	    ],
//	    "target":   { "path": "data/trusted/regions_trusted.csv" }
//	  }]
//	}
package config

import (
	"encoding/json"
	"fmt"

	"datatrust/internal/schema"
)

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job names the run for logs and metrics.
	Job string `json:"job" yaml:"job"`

	// Datasets run sequentially in the listed order.
	Datasets []Dataset `json:"datasets" yaml:"datasets"`

	// Storage optionally mirrors each trusted table into a database.
	Storage Storage `json:"storage" yaml:"storage"`

	Metrics Metrics `json:"metrics" yaml:"metrics"`
}

// Dataset describes one raw-to-trusted pipeline.
type Dataset struct {
	// Name is the machine name ("sales"); it also names the mirror table.
	Name string `json:"name" yaml:"name"`

	// Title is used in console output ("Sales raw rows: N").
	Title string `json:"title" yaml:"title"`

	Source Source `json:"source" yaml:"source"`
	Parser Parser `json:"parser" yaml:"parser"`

	// Contract lists the canonical columns checked after renaming.
	Contract schema.Contract `json:"contract" yaml:"contract"`

	Transform []Transform `json:"transform" yaml:"transform"`
	Target    Target      `json:"target" yaml:"target"`
}

// Label returns Title, falling back to Name.
func (d Dataset) Label() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Source is a raw input file.
type Source struct {
	Path string `json:"path" yaml:"path"`
	// Encoding of the raw bytes: "latin1" (default) or "utf-8".
	Encoding string `json:"encoding" yaml:"encoding"`
}

// Target is a trusted output file.
type Target struct {
	Path string `json:"path" yaml:"path"`
	// Encoding of the written bytes: "utf-8" (default) or "latin1".
	Encoding string `json:"encoding" yaml:"encoding"`
}

// Parser selects how raw bytes become a table.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the parser. For CSV:
	//   comma (string), header_case ("lower" or ""), trim_headers (bool),
	//   header_map (object), na_values ([]string)
	Options Options `json:"options" yaml:"options"`
}

// Transform is a single step of the transform chain.
type Transform struct {
	// Kind is one of "normalize", "coerce", "filter", "require", "dedup".
	Kind string `json:"kind" yaml:"kind"`

	Options Options `json:"options" yaml:"options"`
}

// Storage selects the optional mirror sink. An empty Kind disables it.
type Storage struct {
	// Kind is "sqlite" or "postgres".
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the mirror database.
type DBConfig struct {
	// DSN is passed to the driver (pgxpool or database/sql).
	DSN string `json:"dsn" yaml:"dsn"`

	// TablePrefix is prepended to the dataset name to form the table name,
	// e.g. "trusted_" gives "trusted_sales". A schema qualifier such as
	// "public.trusted_" is accepted.
	TablePrefix string `json:"table_prefix" yaml:"table_prefix"`

	// AutoCreateTable creates each table from the dataset contract when it
	// does not exist.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`

	// Replace deletes existing rows before loading so reruns do not
	// duplicate data.
	Replace bool `json:"replace" yaml:"replace"`

	// BatchSize is the number of rows per bulk insert. Zero means 1000.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DogStatsDAddr  string `json:"dogstatsd_addr" yaml:"dogstatsd_addr"`
}

// Options is a small helper to fetch typed values from arbitrary decoded maps.
// It performs only minimal type coercion and returns the provided default
// when a key is absent or of an unexpected type. Values may come from
// encoding/json (numbers as float64) or yaml.v3 (numbers as int or float64).
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. yaml.v3 decodes
// nested objects as Options, encoding/json as map[string]any.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case Options:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key.
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// Decode re-encodes the value at key as JSON and decodes it into dst. It is
// used for nested blocks with a typed shape, such as filter rules. A missing
// key leaves dst untouched.
func (o Options) Decode(key string, dst any) error {
	raw, ok := o[key]
	if !ok || raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("options %q: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("options %q: %w", key, err)
	}
	return nil
}

// UnmarshalJSON makes a missing or null "options" object decode to a non-nil,
// empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

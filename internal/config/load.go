package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a config file. ".yaml" and ".yml" files are decoded with
// yaml.v3; anything else is decoded as JSON. Unset top-level values fall back
// to the defaults: the job name, the metrics backend and, when the file lists
// no datasets, the five built-in pipelines.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json config %s: %w", path, err)
		}
	}

	def := Default()
	if cfg.Job == "" {
		cfg.Job = def.Job
	}
	if len(cfg.Datasets) == 0 {
		cfg.Datasets = def.Datasets
	}
	if cfg.Metrics.Backend == "" {
		cfg.Metrics.Backend = def.Metrics.Backend
	}
	return cfg, nil
}

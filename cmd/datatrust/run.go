package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"datatrust/internal/config"
	"datatrust/internal/metrics"
	"datatrust/internal/metrics/datadog"
	"datatrust/internal/metrics/prompush"
	"datatrust/internal/trust"

	// register the mirror backends with the storage factory.
	_ "datatrust/internal/storage/all"
)

const (
	bannerStart = "=== PHASE 2: DATA TRUST LAYER STARTED ==="
	bannerDone  = "=== PHASE 2 COMPLETED SUCCESSFULLY ==="

	defaultPushgatewayURL = "http://localhost:9091"
	defaultDogStatsDAddr  = "127.0.0.1:8125"
)

// options carries the parsed command line.
type options struct {
	configPath     string
	validate       bool
	verbose        bool
	metricsBackend string
	pushgatewayURL string
	dogstatsdAddr  string
	storageKind    string
	storageDSN     string
}

// errInvalidConfig is returned when validation reports errors.
var errInvalidConfig = errors.New("configuration is invalid")

// now is swapped in tests.
var now = time.Now

// run executes one trust run and writes the console report to stdout.
func run(ctx context.Context, opt options, stdout io.Writer) error {
	cfg, err := loadConfig(opt)
	if err != nil {
		return err
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		log.Printf("config: %s", iss)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("%w: %s", errInvalidConfig, describe(opt.configPath))
	}
	if opt.validate {
		log.Printf("config: valid: %s", describe(opt.configPath))
		return nil
	}

	runID := uuid.NewString()
	flush := setupMetrics(resolveMetrics(cfg.Metrics, opt), cfg.Job, runID, opt.verbose)
	defer flush()

	if opt.verbose {
		log.Printf("trust: job=%s run_id=%s datasets=%d storage=%q", cfg.Job, runID, len(cfg.Datasets), cfg.Storage.Kind)
	}

	start := now()
	fmt.Fprintln(stdout, bannerStart)
	r := &trust.Runner{
		Job:     cfg.Job,
		Out:     stdout,
		Storage: cfg.Storage,
		Now:     func() time.Time { return start },
		Verbose: opt.verbose,
	}
	if _, err := r.Run(ctx, cfg.Datasets); err != nil {
		return err
	}
	fmt.Fprintln(stdout, bannerDone)

	if opt.verbose {
		log.Printf("trust: completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

// loadConfig reads -config (or the built-in defaults) and applies the
// storage flag overrides.
func loadConfig(opt options) (config.Config, error) {
	cfg := config.Default()
	if opt.configPath != "" {
		var err error
		if cfg, err = config.Load(opt.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if opt.storageKind != "" {
		cfg.Storage.Kind = opt.storageKind
		cfg.Storage.DB.AutoCreateTable = true
		cfg.Storage.DB.Replace = true
		if cfg.Storage.DB.TablePrefix == "" {
			cfg.Storage.DB.TablePrefix = "trusted_"
		}
	}
	if opt.storageDSN != "" {
		cfg.Storage.DB.DSN = opt.storageDSN
	}
	return cfg, nil
}

// resolveMetrics applies flag → env → config precedence.
func resolveMetrics(m config.Metrics, opt options) config.Metrics {
	m.Backend = firstNonEmpty(opt.metricsBackend, os.Getenv("METRICS_BACKEND"), m.Backend)
	m.PushgatewayURL = firstNonEmpty(opt.pushgatewayURL, os.Getenv("PUSHGATEWAY_URL"), m.PushgatewayURL, defaultPushgatewayURL)
	m.DogStatsDAddr = firstNonEmpty(opt.dogstatsdAddr, os.Getenv("DOGSTATSD_ADDR"), m.DogStatsDAddr, defaultDogStatsDAddr)
	return m
}

// setupMetrics installs the configured backend and returns the function that
// flushes it at exit. Backend failures only disable metrics.
func setupMetrics(m config.Metrics, job, runID string, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, m.PushgatewayURL, runID)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DogStatsDAddr,
			Namespace:  "datatrust.",
			GlobalTags: []string{"job:" + job, "run_id:" + runID},
		})
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", m.Backend)
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", m.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", m.Backend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%s job=%s run_id=%s", m.Backend, job, runID)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func describe(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

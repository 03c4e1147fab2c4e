package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
)

// main is the entry point for the trust job. It reads flags, then hands off
// to run, which loads the config, installs metrics and runs every dataset.
func main() {
	var opt options

	flag.StringVar(&opt.configPath, "config", "", "config file (.json, .yaml); empty runs the built-in datasets")
	flag.BoolVar(&opt.validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&opt.verbose, "v", false, "enable verbose logs")
	flag.StringVar(&opt.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	flag.StringVar(&opt.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&opt.dogstatsdAddr, "dogstatsd-addr", "", "DogStatsD address (overrides env DOGSTATSD_ADDR)")
	flag.StringVar(&opt.storageKind, "storage", "", "mirror trusted tables into sqlite or postgres")
	flag.StringVar(&opt.storageDSN, "storage-dsn", "", "DSN for the mirror database")
	flag.Parse()

	log.SetOutput(os.Stderr)

	if err := run(context.Background(), opt, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

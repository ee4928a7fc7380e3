// Command outputsync runs one cache synchronization cycle against a
// remote output backend. It is a development driver for the outputcache
// engine, not a production tool.
//
// Usage:
//
//	outputsync -cache-dir /tmp/remoteOutputCache \
//	    -http-url https://outputs.example.com \
//	    -paths outputs/app.jar,outputs/lib.so
//
//	outputsync -cache-dir /tmp/remoteOutputCache \
//	    -oci-ref ghcr.io/org/outputs:build-1234
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/meigma/outputcache"
	"github.com/meigma/outputcache/httpstore"
	"github.com/meigma/outputcache/ocistore"
)

type config struct {
	cacheDir   string
	httpURL    string
	ociRef     string
	plainHTTP  bool
	paths      string
	workers    int
	byteBudget int64
	clear      bool
	timeout    time.Duration
	verbose    bool
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.cacheDir, "cache-dir", "", "cache directory (required)")
	flag.StringVar(&cfg.httpURL, "http-url", "", "base URL of an HTTP output backend")
	flag.StringVar(&cfg.ociRef, "oci-ref", "", "OCI reference of an output artifact (e.g. ghcr.io/org/outputs:tag)")
	flag.BoolVar(&cfg.plainHTTP, "plain-http", false, "use plain HTTP for the OCI registry")
	flag.StringVar(&cfg.paths, "paths", "", "comma-separated logical paths to cache (required with -http-url)")
	flag.IntVar(&cfg.workers, "workers", 4, "concurrent transfer units")
	flag.Int64Var(&cfg.byteBudget, "byte-budget", 0, "max artifact bytes in flight (0 = unlimited)")
	flag.BoolVar(&cfg.clear, "clear", false, "clear the cache before syncing")
	flag.DurationVar(&cfg.timeout, "timeout", 5*time.Minute, "overall sync timeout")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if cfg.cacheDir == "" {
		log.Fatal("-cache-dir is required")
	}
	if (cfg.httpURL == "") == (cfg.ociRef == "") {
		log.Fatal("exactly one of -http-url or -oci-ref is required")
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	gen, err := buildGeneration(ctx, cfg)
	if err != nil {
		return err
	}

	cache, err := outputcache.New(cfg.cacheDir,
		outputcache.WithLogger(logger),
		outputcache.WithWorkers(cfg.workers),
		outputcache.WithByteBudget(cfg.byteBudget),
	)
	if err != nil {
		return err
	}
	cache.Initialize()

	var desired []outputcache.Artifact
	for a := range gen.All() {
		desired = append(desired, a)
	}

	res := cache.Update(ctx, desired, nil, cfg.clear)
	switch res.Status {
	case outputcache.StatusOK:
		fmt.Printf("synced %d outputs (%d copied, %d deleted) into %s\n",
			cache.Len(), res.Copied, res.Deleted, cfg.cacheDir)
		return nil
	case outputcache.StatusCancelled:
		return fmt.Errorf("sync cancelled: %w", res.Err)
	default:
		return fmt.Errorf("sync failed: %w", res.Err)
	}
}

func buildGeneration(ctx context.Context, cfg config) (outputcache.Generation, error) {
	if cfg.ociRef != "" {
		store, err := ocistore.New(ctx, cfg.ociRef, ocistore.WithPlainHTTP(cfg.plainHTTP))
		if err != nil {
			return nil, err
		}
		return store.Generation(), nil
	}

	if cfg.paths == "" {
		return nil, errors.New("-paths is required with -http-url")
	}
	store, err := httpstore.New(cfg.httpURL)
	if err != nil {
		return nil, err
	}
	return outputcache.Snapshot(ctx, store, strings.Split(cfg.paths, ","))
}

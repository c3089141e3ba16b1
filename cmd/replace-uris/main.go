// Package main implements the entry point for the replace-uris tool.
// It loads an N-Triples graph and an SSSOM mapping, replaces public
// concept identifiers with minted internal ones, and writes both the
// rewritten graph and the updated mapping back out.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/graph"
	"github.com/novonordisk-research/OBDM-manuscript/metric"
	"github.com/novonordisk-research/OBDM-manuscript/prefixregistry"
	"github.com/novonordisk-research/OBDM-manuscript/rewrite"
	"github.com/novonordisk-research/OBDM-manuscript/sssom"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "replace-uris"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Rewrite failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()

	if cfg.ShowHelp {
		printDetailedHelp()
		return nil
	}
	if cfg.ShowVersion {
		fmt.Printf("%s %s (build %s)\n", appName, Version, BuildTime)
		return nil
	}
	if err := validateFlags(cfg); err != nil {
		return err
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapping, err := loadMapping(cfg, logger)
	if err != nil {
		return fmt.Errorf("load mapping: %w", err)
	}

	minter, err := sssom.NewMinter(mapping, cfg.Domain, cfg.DomainCode)
	if err != nil {
		return fmt.Errorf("prepare minter: %w", err)
	}
	logger.Info("minter ready",
		"domain", minter.Domain(),
		"domain_code", minter.DomainCode(),
		"known_mappings", minter.Len())

	g, err := loadGraph(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", cfg.InputPath, err)
	}
	logger.Info("graph loaded", "path", cfg.InputPath, "triples", g.Len())

	resolver, err := buildResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}

	metrics := metric.New()
	rw, err := rewrite.New(rewrite.Config{
		Graph:    g,
		Minter:   minter,
		Resolver: resolver,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	stats, err := rw.Run(ctx)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}

	if cfg.DryRun {
		logger.Info("dry run, nothing written",
			"candidates", stats.Candidates,
			"would_mint", stats.Minted)
		return nil
	}

	if err := minter.SaveFile(cfg.MappingOut); err != nil {
		return fmt.Errorf("save mapping %s: %w", cfg.MappingOut, err)
	}
	logger.Info("mapping saved", "path", cfg.MappingOut, "records", minter.Len())

	if err := saveGraph(cfg.OutputPath, g); err != nil {
		return fmt.Errorf("save graph %s: %w", cfg.OutputPath, err)
	}
	logger.Info("graph saved", "path", cfg.OutputPath, "triples", g.Len())

	summary, err := metrics.Summary()
	if err != nil {
		logger.Warn("could not gather metrics", "error", err)
		return nil
	}
	names, err := metrics.Names()
	if err != nil {
		logger.Warn("could not gather metrics", "error", err)
		return nil
	}
	attrs := make([]any, 0, len(names)*2)
	for _, name := range names {
		attrs = append(attrs, name, summary[name])
	}
	logger.Info("run summary", attrs...)
	return nil
}

// buildResolver assembles the prefix resolver: an optional local YAML
// table consulted first, then the public registries when requested. Nil
// when neither is configured, which skips enrichment entirely.
func buildResolver(ctx context.Context, cfg *CLIConfig, logger *slog.Logger) (prefixregistry.Resolver, error) {
	var chain prefixregistry.Chain
	if cfg.PrefixFile != "" {
		local, err := prefixregistry.LoadFile(cfg.PrefixFile)
		if err != nil {
			return nil, fmt.Errorf("load prefix table %s: %w", cfg.PrefixFile, err)
		}
		logger.Info("local prefix table loaded", "path", cfg.PrefixFile, "prefixes", local.Len())
		chain = append(chain, local)
	}
	if cfg.FromPublic {
		public, err := prefixregistry.NewClient().Resolver(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch public prefix registries: %w", err)
		}
		chain = append(chain, public)
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}

// loadMapping reads the mapping file, starting a fresh mapping when the
// file does not exist yet.
func loadMapping(cfg *CLIConfig, logger *slog.Logger) (*sssom.Mapping, error) {
	if _, err := os.Stat(cfg.MappingPath); os.IsNotExist(err) {
		logger.Info("mapping file not found, starting empty", "path", cfg.MappingPath)
		return sssom.New(sssom.Options{Converter: curie.New(), Logger: logger})
	}
	return sssom.LoadFile(cfg.MappingPath, sssom.LoadOptions{
		FastLoad: cfg.FastLoad,
		Logger:   logger,
	})
}

func loadGraph(path string) (*graph.MemoryGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return graph.Decode(f)
}

// saveGraph renders the graph fully in memory before touching the file, so
// an encoding failure cannot truncate an in-place rewrite.
func saveGraph(path string, g graph.Graph) error {
	var buf bytes.Buffer
	if err := graph.Encode(&buf, g); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

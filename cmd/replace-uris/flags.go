package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	InputPath   string
	OutputPath  string
	MappingPath string
	MappingOut  string
	Domain      string
	DomainCode  string
	PrefixFile  string
	FromPublic  bool
	FastLoad    bool
	DryRun      bool
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.InputPath, "input",
		getEnv("OBDM_INPUT", ""),
		"Path to the N-Triples graph to rewrite (env: OBDM_INPUT)")

	flag.StringVar(&cfg.InputPath, "i",
		getEnv("OBDM_INPUT", ""),
		"Path to the N-Triples graph to rewrite (env: OBDM_INPUT)")

	flag.StringVar(&cfg.OutputPath, "output",
		getEnv("OBDM_OUTPUT", ""),
		"Path for the rewritten graph, defaults to the input path (env: OBDM_OUTPUT)")

	flag.StringVar(&cfg.MappingPath, "mapping",
		getEnv("OBDM_MAPPING", ""),
		"Path to the SSSOM mapping file (env: OBDM_MAPPING)")

	flag.StringVar(&cfg.MappingOut, "mapping-out",
		getEnv("OBDM_MAPPING_OUT", ""),
		"Path for the updated mapping, defaults to the mapping path (env: OBDM_MAPPING_OUT)")

	flag.StringVar(&cfg.Domain, "domain",
		getEnv("OBDM_DOMAIN", ""),
		"Domain to mint identifiers in (env: OBDM_DOMAIN)")

	flag.StringVar(&cfg.DomainCode, "domain-code",
		getEnv("OBDM_DOMAIN_CODE", ""),
		"Two-digit code for the domain, required when the domain is new (env: OBDM_DOMAIN_CODE)")

	flag.StringVar(&cfg.PrefixFile, "prefixes",
		getEnv("OBDM_PREFIXES", ""),
		"Path to a local YAML prefix table consulted before public registries (env: OBDM_PREFIXES)")

	flag.BoolVar(&cfg.FromPublic, "from-public",
		getEnvBool("OBDM_FROM_PUBLIC", false),
		"Resolve unknown prefixes against public registries before minting (env: OBDM_FROM_PUBLIC)")

	flag.BoolVar(&cfg.FastLoad, "fast-load",
		getEnvBool("OBDM_FAST_LOAD", false),
		"Load the mapping without per-record validation (env: OBDM_FAST_LOAD)")

	flag.BoolVar(&cfg.DryRun, "dry",
		getEnvBool("OBDM_DRY", false),
		"Run the rewrite without writing the graph or mapping (env: OBDM_DRY)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("OBDM_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: OBDM_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("OBDM_LOG_FORMAT", "text"),
		"Log format: json, text (env: OBDM_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Fill derived defaults
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath
	}
	if cfg.MappingOut == "" {
		cfg.MappingOut = cfg.MappingPath
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.InputPath == "" {
		return fmt.Errorf("input graph path is required")
	}
	if _, err := os.Stat(cfg.InputPath); err != nil {
		return fmt.Errorf("input graph not found: %s", cfg.InputPath)
	}

	if cfg.MappingPath == "" {
		return fmt.Errorf("mapping path is required")
	}

	if cfg.Domain == "" && cfg.DomainCode == "" {
		return fmt.Errorf("either a domain or a domain code is required")
	}

	if cfg.PrefixFile != "" {
		if _, err := os.Stat(cfg.PrefixFile); err != nil {
			return fmt.Errorf("prefix table not found: %s", cfg.PrefixFile)
		}
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	// Validate log format
	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Public-to-internal ontology identifier rewrite

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Rewrite a graph in place, minting in the chemistry domain
  %s --input=concepts.nt --mapping=chemistry.sssom.tsv --domain=chemistry --domain-code=07

  # Rewrite into a new file, resolving unknown prefixes from public registries
  %s --input=concepts.nt --output=internal.nt --mapping=chemistry.sssom.tsv \
      --domain=chemistry --from-public

  # Preview without writing anything
  %s --input=concepts.nt --mapping=chemistry.sssom.tsv --domain=chemistry --dry

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

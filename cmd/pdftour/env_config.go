package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-pdftour/internal/config"
	"github.com/alnah/go-pdftour/internal/runner"
)

// envPrefix starts every variable read by pdftour.
const envPrefix = "PDFTOUR_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string // PDFTOUR_CONFIG: config file name or path
	Backend     string // PDFTOUR_BACKEND: fpdf or chrome
	Timeout     string // PDFTOUR_TIMEOUT: Chrome timeout
	Workers     int    // PDFTOUR_WORKERS: build workers
	OutputDir   string // PDFTOUR_OUTPUT_DIR: default output directory
	AssetPath   string // PDFTOUR_ASSET_PATH: sample override directory
	PageSize    string // PDFTOUR_PAGE_SIZE: a4, letter, legal
	SelfDocDate string // PDFTOUR_SELFDOC_DATE: footer date of the self-documenting demo
}

// knownEnvVars lists valid PDFTOUR_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFTOUR_CONFIG":       true,
	"PDFTOUR_BACKEND":      true,
	"PDFTOUR_TIMEOUT":      true,
	"PDFTOUR_WORKERS":      true,
	"PDFTOUR_OUTPUT_DIR":   true,
	"PDFTOUR_ASSET_PATH":   true,
	"PDFTOUR_PAGE_SIZE":    true,
	"PDFTOUR_SELFDOC_DATE": true,
	"PDFTOUR_CONTAINER":    true, // read by doctor
	runner.RunIDEnv:        true, // set by run-all for its children
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("PDFTOUR_CONFIG"),
		Backend:     os.Getenv("PDFTOUR_BACKEND"),
		Timeout:     os.Getenv("PDFTOUR_TIMEOUT"),
		OutputDir:   os.Getenv("PDFTOUR_OUTPUT_DIR"),
		AssetPath:   os.Getenv("PDFTOUR_ASSET_PATH"),
		PageSize:    os.Getenv("PDFTOUR_PAGE_SIZE"),
		SelfDocDate: os.Getenv("PDFTOUR_SELFDOC_DATE"),
	}

	// Invalid counts are ignored, like an unset variable.
	if workers := os.Getenv("PDFTOUR_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PDFTOUR_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Backend != "" && cfg.Render.Backend == "" {
		cfg.Render.Backend = env.Backend
	}
	if env.Timeout != "" && cfg.Render.Timeout == "" {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.SelfDocDate != "" && cfg.SelfDoc.Date == "" {
		cfg.SelfDoc.Date = env.SelfDocDate
	}
}

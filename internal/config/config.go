// Package config loads the pdftour configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/dateutil"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/yamlutil"
)

// AppDir is the directory under the user config directory searched for
// named configs.
const AppDir = "pdftour"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength        = 4096
	MaxTitleLength       = 200
	MaxPageInfoLength    = 200
	MaxDateLength        = 30 // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxPatternLength     = 100
	MaxCommandLength     = 500
	MaxExcludeEntries    = 100
	MaxSnipLines         = 10000
	MaxWorkers           = pdftour.MaxPoolSize
	MaxMargin            = 288.0 // 4 inches, in points
)

// Config holds the settings shared by the commands. Command-line flags
// override them.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Output  OutputConfig  `yaml:"output"`
	Assets  AssetsConfig  `yaml:"assets"`
	SelfDoc SelfDocConfig `yaml:"selfdoc"`
	Runner  RunnerConfig  `yaml:"runner"`
	Render  RenderConfig  `yaml:"render"`
}

// PageConfig overrides the page of story files and demos without a page
// of their own.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "a4", "letter", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // points (default: 72)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current or source directory)
}

// AssetsConfig defines sample loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Directory overriding embedded samples (empty = embedded only)
}

// SelfDocConfig configures the self-documenting demo.
type SelfDocConfig struct {
	Title     string   `yaml:"title"`
	PageInfo  string   `yaml:"pageInfo"`
	Date      string   `yaml:"date"`      // literal, "auto" or "auto:FORMAT"
	SnipLines int      `yaml:"snipLines"` // 0 = 30
	Exclude   []string `yaml:"exclude"`   // nil = images
}

// RunnerConfig configures run-all.
type RunnerConfig struct {
	Pattern string `yaml:"pattern"` // script glob used with --dir (default: "*.py")
	Command string `yaml:"command"` // interpreter, e.g. "python3 -u" (empty = execute directly)
	Detach  bool   `yaml:"detach"`  // return without waiting for the children
}

// RenderConfig selects and tunes the renderer.
type RenderConfig struct {
	Backend string `yaml:"backend"` // "fpdf" or "chrome" (default: "fpdf")
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s" (Chrome only)
	Workers int    `yaml:"workers"` // build concurrency (0 = auto)
}

// Validate checks field lengths and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Page.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := c.SelfDoc.validate(); err != nil {
		return err
	}
	if err := c.Runner.validate(); err != nil {
		return err
	}
	return c.Render.validate()
}

func (p PageConfig) validate() error {
	if err := validateFieldLength("page.size", p.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", p.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if p.Margin < 0 || p.Margin > MaxMargin {
		return fmt.Errorf("%w: page.margin must be between 0 and %.0f points, got %.2f", ErrInvalidValue, MaxMargin, p.Margin)
	}
	if _, err := p.Settings(); err != nil {
		return fmt.Errorf("%w: page: %v", ErrInvalidValue, err)
	}
	return nil
}

// Settings returns the page settings, starting from
// pdftour.DefaultPageSettings.
func (p PageConfig) Settings() (pdftour.PageSettings, error) {
	page := pdftour.DefaultPageSettings()
	if p.Size != "" {
		page.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		page.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin > 0 {
		page.Margins = pdftour.UniformMargins(p.Margin)
	}
	return page, page.Validate()
}

func (s SelfDocConfig) validate() error {
	if err := validateFieldLength("selfdoc.title", s.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("selfdoc.pageInfo", s.PageInfo, MaxPageInfoLength); err != nil {
		return err
	}
	if err := validateFieldLength("selfdoc.date", s.Date, MaxDateLength); err != nil {
		return err
	}
	if _, err := dateutil.ResolveDate(s.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: selfdoc.date: %v", ErrInvalidValue, err)
	}
	if s.SnipLines < 0 || s.SnipLines > MaxSnipLines {
		return fmt.Errorf("%w: selfdoc.snipLines must be between 0 and %d, got %d", ErrInvalidValue, MaxSnipLines, s.SnipLines)
	}
	if len(s.Exclude) > MaxExcludeEntries {
		return fmt.Errorf("%w: selfdoc.exclude has %d entries, max %d", ErrInvalidValue, len(s.Exclude), MaxExcludeEntries)
	}
	for i, name := range s.Exclude {
		if err := validateFieldLength(fmt.Sprintf("selfdoc.exclude[%d]", i), name, MaxPathLength); err != nil {
			return err
		}
	}
	return nil
}

func (r RunnerConfig) validate() error {
	if err := validateFieldLength("runner.pattern", r.Pattern, MaxPatternLength); err != nil {
		return err
	}
	if err := validateFieldLength("runner.command", r.Command, MaxCommandLength); err != nil {
		return err
	}
	if _, err := filepath.Match(r.Pattern, ""); err != nil {
		return fmt.Errorf("%w: runner.pattern %q: %v", ErrInvalidValue, r.Pattern, err)
	}
	return nil
}

func (r RenderConfig) validate() error {
	if _, err := pdftour.ParseBackend(r.Backend); err != nil {
		return fmt.Errorf("%w: render.backend: %v", ErrInvalidValue, err)
	}
	if _, err := r.TimeoutDuration(); err != nil {
		return err
	}
	if r.Workers < 0 || r.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, r.Workers)
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty returns zero, meaning the
// renderer default.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout %q must be a positive duration", ErrInvalidValue, r.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{Pattern: "*.py"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the files tried for a config name, in order:
// ./name.yaml, ./name.yml, then the same names under
// <user config dir>/pdftour/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first of SearchPaths(name) that exists.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

package main

import (
	"errors"
	"fmt"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/config"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/storyfile"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrOutputDir          = errors.New("cannot create output directory")
	ErrInvalidExtension   = errors.New("story files must end in " + storyfile.Extension)
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// configNotFoundError keeps the name a config was searched by, so the hint
// can list where it was looked for.
type configNotFoundError struct {
	name string
	err  error
}

func (e *configNotFoundError) Error() string { return "loading config: " + e.err.Error() }
func (e *configNotFoundError) Unwrap() error { return e.err }

// settings is the configuration a command runs with, after merging
// defaults, config file, environment and flags, in increasing priority.
type settings struct {
	cfg     *config.Config
	page    pdftour.PageSettings
	backend pdftour.Backend
	timeout time.Duration
	quiet   bool
	verbose bool
}

// loadSettings resolves the settings of a command. Flag values are
// validated with the config file values.
func loadSettings(common commonFlags, render renderFlags, page pageFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, &configNotFoundError{name: name, err: err}
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(render, page, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, quiet: common.quiet, verbose: common.verbose && !common.quiet}
	var err error
	if s.page, err = cfg.Page.Settings(); err != nil {
		return nil, err
	}
	if s.backend, err = pdftour.ParseBackend(cfg.Render.Backend); err != nil {
		return nil, err
	}
	if s.timeout, err = cfg.Render.TimeoutDuration(); err != nil {
		return nil, err
	}
	return s, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(render renderFlags, page pageFlags, cfg *config.Config) error {
	if render.backend != "" {
		cfg.Render.Backend = render.backend
	}
	if render.timeout != "" {
		cfg.Render.Timeout = render.timeout
	}
	if page.size != "" {
		cfg.Page.Size = page.size
	}
	if page.orientation != "" {
		cfg.Page.Orientation = page.orientation
	}
	if page.margin != "" {
		m, err := storyfile.ParseLength(page.margin)
		if err != nil {
			return fmt.Errorf("%w: --margin: %v", ErrUsage, err)
		}
		cfg.Page.Margin = m.Points()
	}
	return nil
}

// rendererOptions returns the options every renderer of the command is
// built with.
func (s *settings) rendererOptions(now time.Time) []pdftour.Option {
	opts := []pdftour.Option{pdftour.WithBackend(s.backend), pdftour.WithCreationDate(now)}
	if s.timeout > 0 {
		opts = append(opts, pdftour.WithTimeout(s.timeout))
	}
	return opts
}

// samples returns the sample loader: files under assets.basePath first,
// then the embedded samples.
func (s *settings) samples() (*assets.Resolver, error) {
	return assets.NewResolver(s.cfg.Assets.BasePath)
}

// pagePtr returns the configured page when the config or flags set one,
// nil otherwise.
func (s *settings) pagePtr() *pdftour.PageSettings {
	if s.cfg.Page == (config.PageConfig{}) {
		return nil
	}
	page := s.page
	return &page
}

// outputDir returns flagDir, or the configured default, or def.
func (s *settings) outputDir(flagDir, def string) string {
	if flagDir != "" {
		return flagDir
	}
	if s.cfg.Output.DefaultDir != "" {
		return s.cfg.Output.DefaultDir
	}
	return def
}

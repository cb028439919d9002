package main

// Notes:
// - loadSettings: we test the merge order (flags over config file) with a
//   config file in t.TempDir, passed by path.
// - parseFlagSet: we test that parse errors wrap ErrUsage and -h passes
//   flag.ErrHelp through.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/config"
)

// writeConfigFile writes a config file into a temp dir and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pdftour.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestLoadSettings - Config file, flags and derived values
// ---------------------------------------------------------------------------

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		s, err := loadSettings(commonFlags{quiet: true}, renderFlags{}, pageFlags{}, env)
		if err != nil {
			t.Fatalf("loadSettings() error: %v", err)
		}
		if s.backend != pdftour.BackendFPDF {
			t.Errorf("backend = %q, want fpdf", s.backend)
		}
		if s.page != pdftour.DefaultPageSettings() {
			t.Errorf("page = %+v, want the default page", s.page)
		}
		if s.pagePtr() != nil {
			t.Error("pagePtr() should be nil without page settings")
		}
		if s.timeout != 0 {
			t.Errorf("timeout = %v, want 0", s.timeout)
		}
	})

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "page:\n  size: letter\n  orientation: landscape\nrender:\n  timeout: 10s\n")
		env, _, _ := newTestEnv()
		s, err := loadSettings(
			commonFlags{config: path, quiet: true},
			renderFlags{timeout: "45s"},
			pageFlags{size: "legal", margin: "1in"},
			env,
		)
		if err != nil {
			t.Fatalf("loadSettings() error: %v", err)
		}
		if s.page.Size != "legal" || s.page.Orientation != "landscape" {
			t.Errorf("page = %+v", s.page)
		}
		if s.page.Margins != pdftour.UniformMargins(72) {
			t.Errorf("margins = %+v, want 72pt", s.page.Margins)
		}
		if s.timeout != 45*time.Second {
			t.Errorf("timeout = %v, want 45s", s.timeout)
		}
		if p := s.pagePtr(); p == nil || *p != s.page {
			t.Errorf("pagePtr() = %v", p)
		}
	})

	t.Run("quiet wins over verbose", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		s, err := loadSettings(commonFlags{quiet: true, verbose: true}, renderFlags{}, pageFlags{}, env)
		if err != nil {
			t.Fatal(err)
		}
		if s.verbose {
			t.Error("verbose should be off when quiet")
		}
	})

	errTests := []struct {
		name    string
		common  commonFlags
		render  renderFlags
		page    pageFlags
		wantErr error
	}{
		{"unknown backend", commonFlags{}, renderFlags{backend: "tex"}, pageFlags{}, config.ErrInvalidValue},
		{"bad timeout", commonFlags{}, renderFlags{timeout: "soon"}, pageFlags{}, config.ErrInvalidValue},
		{"bad page size", commonFlags{}, renderFlags{}, pageFlags{size: "a7"}, config.ErrInvalidValue},
		{"bad margin", commonFlags{}, renderFlags{}, pageFlags{margin: "wide"}, ErrUsage},
		{"config path missing", commonFlags{config: filepath.Join("no", "such", "pdftour.yaml")}, renderFlags{}, pageFlags{}, config.ErrConfigNotFound},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := newTestEnv()
			tt.common.quiet = true
			if _, err := loadSettings(tt.common, tt.render, tt.page, env); !errors.Is(err, tt.wantErr) {
				t.Errorf("loadSettings() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("config name not found keeps the name", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		_, err := loadSettings(commonFlags{config: "pdftour-no-such-config", quiet: true}, renderFlags{}, pageFlags{}, env)
		var nf *configNotFoundError
		if !errors.As(err, &nf) || nf.name != "pdftour-no-such-config" {
			t.Errorf("error = %v, want a configNotFoundError", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestSettings_OutputDir - Flag, config, default
// ---------------------------------------------------------------------------

func TestSettings_OutputDir(t *testing.T) {
	t.Parallel()

	s := &settings{cfg: config.DefaultConfig()}
	if got := s.outputDir("", "."); got != "." {
		t.Errorf("outputDir() = %q, want default", got)
	}
	s.cfg.Output.DefaultDir = "out"
	if got := s.outputDir("", "."); got != "out" {
		t.Errorf("outputDir() = %q, want config value", got)
	}
	if got := s.outputDir("flag", "."); got != "flag" {
		t.Errorf("outputDir() = %q, want flag value", got)
	}
}

func TestSettings_RendererOptions(t *testing.T) {
	t.Parallel()

	s := &settings{cfg: config.DefaultConfig(), backend: pdftour.BackendFPDF}
	if got := len(s.rendererOptions(time.Now())); got != 2 {
		t.Errorf("got %d options, want 2", got)
	}
	s.timeout = time.Minute
	if got := len(s.rendererOptions(time.Now())); got != 3 {
		t.Errorf("got %d options with a timeout, want 3", got)
	}
}

// ---------------------------------------------------------------------------
// TestParseFlagSet - Usage errors and help
// ---------------------------------------------------------------------------

func TestParseFlagSet(t *testing.T) {
	t.Parallel()

	t.Run("positional arguments", func(t *testing.T) {
		t.Parallel()

		f := &demoFlags{}
		rest, err := parseFlagSet(newDemoFlagSet(f), []string{"02_text", "-o", "out", "01_hello_world", "--page-size", "letter"})
		if err != nil {
			t.Fatal(err)
		}
		if len(rest) != 2 || rest[0] != "02_text" || rest[1] != "01_hello_world" {
			t.Errorf("rest = %v", rest)
		}
		if f.output != "out" || f.page.size != "letter" {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("exclude list", func(t *testing.T) {
		t.Parallel()

		f := &selfDocFlags{}
		if _, err := parseFlagSet(newSelfDocFlagSet(f), []string{"--exclude", "a.py,b.txt", "--snip", "5"}); err != nil {
			t.Fatal(err)
		}
		if len(f.exclude) != 2 || f.snip != 5 {
			t.Errorf("exclude = %v, snip = %d", f.exclude, f.snip)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		_, err := parseFlagSet(newBuildFlagSet(&buildFlags{}), []string{"--colour"})
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		_, err := parseFlagSet(newSamplesFlagSet(&samplesFlags{}), []string{"-h"})
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
	})
}

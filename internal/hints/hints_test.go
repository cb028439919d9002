package hints

// Notes:
// - TestMain points DockerEnvFile at a missing path so the host does not
//   decide container detection. TestDetectContainer_DockerEnvFile swaps it
//   for a real file and cannot run in parallel.
// - The environment is passed as a map lookup, so no test touches os.Environ.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	DockerEnvFile = filepath.Join(os.TempDir(), "pdftour-hints-no-such-file")
	os.Exit(m.Run())
}

// envMap returns a getenv func reading from vars.
func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestDetectContainer - Container signals
// ---------------------------------------------------------------------------

func TestDetectContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		want     bool
		wantHint string
	}{
		{"none", nil, false, ""},
		{"explicit", map[string]string{"PDFTOUR_CONTAINER": "1"}, true, "PDFTOUR_CONTAINER=1"},
		{"explicit other value", map[string]string{"PDFTOUR_CONTAINER": "yes"}, false, ""},
		{"podman", map[string]string{"container": "podman"}, true, "container=podman"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, true, "KUBERNETES_SERVICE_HOST"},
		{"explicit wins", map[string]string{"PDFTOUR_CONTAINER": "1", "container": "podman"}, true, "PDFTOUR_CONTAINER=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, hint := DetectContainer(envMap(tt.vars))
			if got != tt.want || hint != tt.wantHint {
				t.Errorf("DetectContainer() = %v, %q, want %v, %q", got, hint, tt.want, tt.wantHint)
			}
		})
	}
}

// NOTE: This test swaps DockerEnvFile and cannot run in parallel.
func TestDetectContainer_DockerEnvFile(t *testing.T) {
	orig := DockerEnvFile
	t.Cleanup(func() { DockerEnvFile = orig })

	DockerEnvFile = filepath.Join(t.TempDir(), ".dockerenv")
	if err := os.WriteFile(DockerEnvFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, hint := DetectContainer(envMap(map[string]string{"container": "podman"}))
	if !got || hint != DockerEnvFile {
		t.Errorf("DetectContainer() = %v, %q, want the marker file", got, hint)
	}
}

func TestInCI(t *testing.T) {
	t.Parallel()

	for _, name := range ciVariables {
		if !InCI(envMap(map[string]string{name: "true"})) {
			t.Errorf("InCI() with %s = false", name)
		}
	}
	if InCI(envMap(nil)) {
		t.Error("InCI() with no variables = true")
	}
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Chrome launch failures
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    map[string]string
		want    []string
		notWant []string
	}{
		{
			name: "in CI",
			vars: map[string]string{"CI": "true"},
			want: []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--backend fpdf"},
		},
		{
			name: "in container",
			vars: map[string]string{"container": "docker"},
			want: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:    "sandbox already disabled",
			vars:    map[string]string{"CI": "true", "ROD_NO_SANDBOX": "1"},
			notWant: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:    "local run",
			vars:    nil,
			want:    []string{"ROD_BROWSER_BIN"},
			notWant: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:    "custom browser set",
			vars:    map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"},
			want:    []string{"--backend fpdf"},
			notWant: []string{"ROD_BROWSER_BIN", "ROD_NO_SANDBOX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForBrowserConnect(envMap(tt.vars))
			for _, w := range tt.want {
				if !strings.Contains(hint, w) {
					t.Errorf("hint %q lacks %q", hint, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(hint, w) {
					t.Errorf("hint %q should not mention %q", hint, w)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound - Config search paths
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	userPath := filepath.Join("home", "ada", ".config", configDirName, "work.yaml")

	tests := []struct {
		name  string
		paths []string
		want  string
		no    string
	}{
		{"user dir searched", []string{"work.yaml", userPath}, "or create " + userPath, ""},
		{"local only", []string{"work.yaml", "work.yml"}, "--config", "or create"},
		{"no paths", nil, "--config", "or create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.paths)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ForConfigNotFound() = %q, want %q", got, tt.want)
			}
			if tt.no != "" && strings.Contains(got, tt.no) {
				t.Errorf("ForConfigNotFound() = %q, should not contain %q", got, tt.no)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints - Fixed remedies
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"image", ForImage(), "pdftour samples"},
		{"embed page", ForEmbedPage(), "--exclude"},
		{"not numeric", ForNotNumeric(), "CSV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks the prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint %q lacks %q", tt.got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAvailableLists - Style and demo names
// ---------------------------------------------------------------------------

func TestAvailableLists(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound([]string{"Body", "Title"}); got != "\n  hint: available: Body, Title" {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
	if got := ForUnknownDemo([]string{"01_hello_world"}); got != "\n  hint: available: 01_hello_world; see pdftour demo --list" {
		t.Errorf("ForUnknownDemo() = %q", got)
	}
	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	if got := ForUnknownDemo(nil); got != "" {
		t.Errorf("ForUnknownDemo(nil) = %q, want empty", got)
	}
}

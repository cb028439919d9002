// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// configDirName is the directory under the user config directory holding
// named configs.
const configDirName = "pdftour"

// DockerEnvFile is the marker file Docker creates in every container.
var DockerEnvFile = "/.dockerenv"

// ciVariables are set by the common CI services.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// DetectContainer reports whether the process runs in a container, and
// the signal that gave it away. PDFTOUR_CONTAINER=1 wins over the rest.
func DetectContainer(getenv func(string) string) (bool, string) {
	if getenv("PDFTOUR_CONTAINER") == "1" {
		return true, "PDFTOUR_CONTAINER=1"
	}
	if _, err := os.Stat(DockerEnvFile); err == nil {
		return true, DockerEnvFile
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// InCI reports whether one of the usual CI variables is set.
func InCI(getenv func(string) string) bool {
	for _, name := range ciVariables {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for Chrome launch errors, suggesting the
// rod variables that apply and the fpdf backend as a way out.
func ForBrowserConnect(getenv func(string) string) string {
	var hints []string

	inContainer, _ := DetectContainer(getenv)
	if (InCI(getenv) || inContainer) && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or use --backend fpdf")

	return format(strings.Join(hints, "; "))
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound suggests --config, or creating the config in the user
// config directory when that is among the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	dir := string(filepath.Separator) + configDirName + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, dir) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles of the sheet.
func ForStyleNotFound(available []string) string {
	return forAvailable(available, "")
}

// ForUnknownDemo lists the demos that can be run.
func ForUnknownDemo(available []string) string {
	return forAvailable(available, "see pdftour demo --list")
}

// ForImage returns hints for images that cannot be loaded.
func ForImage() string {
	return format("supported formats: PNG, JPG, GIF; run pdftour samples to write the sample images")
}

// ForEmbedPage returns hints for PDF files that cannot be embedded.
func ForEmbedPage() string {
	return format("only the first page of an unencrypted PDF is embedded; regenerate the file or exclude it with --exclude")
}

// ForNotNumeric returns hints for shaded table cells that are not numbers.
func ForNotNumeric() string {
	return format("shaded columns must hold numbers; check the CSV for units or stray text")
}

func forAvailable(available []string, more string) string {
	if len(available) == 0 {
		return ""
	}
	hint := "available: " + strings.Join(available, ", ")
	if more != "" {
		hint += "; " + more
	}
	return format(hint)
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

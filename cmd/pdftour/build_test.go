package main

// Notes:
// - buildBatch: we test with a mock renderer behind a test pool, so the
//   worker loop, result ordering and failure paths run without fpdf.
// - runBuildCmd: one end-to-end test renders a real story file with fpdf.
// - discoverStories: we test single files, directories and the output path
//   rules.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/storyfile"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock renderer and pool
// ---------------------------------------------------------------------------

// mockRenderer is a test double for pdftour.Renderer.
type mockRenderer struct {
	mu         sync.Mutex
	titles     []string
	renderFunc func(ctx context.Context, doc *pdftour.Document) ([]byte, error)
}

func (m *mockRenderer) Render(ctx context.Context, doc *pdftour.Document) ([]byte, error) {
	m.mu.Lock()
	m.titles = append(m.titles, doc.Title)
	m.mu.Unlock()

	if m.renderFunc != nil {
		return m.renderFunc(ctx, doc)
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockRenderer) Close() error { return nil }

func (m *mockRenderer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.titles)
}

// testPool hands out the same renderer to every worker. A nil renderer
// simulates a failed renderer creation.
type testPool struct {
	r    pdftour.Renderer
	size int
}

func (p *testPool) Acquire() pdftour.Renderer { return p.r }
func (p *testPool) Release(pdftour.Renderer)  {}
func (p *testPool) Size() int                 { return p.size }

// writeStory writes a one-heading story file and returns its path.
func writeStory(t *testing.T, dir, name, title string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "title: " + title + "\nblocks:\n  - type: heading\n    text: " + title + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestBuildBatch - Worker pool
// ---------------------------------------------------------------------------

func TestBuildBatch(t *testing.T) {
	t.Parallel()

	t.Run("renders every file in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []StoryToBuild
		for _, name := range []string{"a", "b", "c", "d"} {
			in := writeStory(t, dir, name+storyfile.Extension, "Story "+name)
			files = append(files, StoryToBuild{InputPath: in, OutputPath: filepath.Join(dir, "out", name+".pdf")})
		}

		mock := &mockRenderer{}
		results := buildBatch(context.Background(), &testPool{r: mock, size: 2}, files, storyfile.Options{})

		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("result %d error: %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result %d is for %s, want %s", i, r.InputPath, files[i].InputPath)
			}
			if _, err := os.Stat(files[i].OutputPath); err != nil {
				t.Errorf("output %d: %v", i, err)
			}
		}
		if mock.calls() != len(files) {
			t.Errorf("renderer called %d times, want %d", mock.calls(), len(files))
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		if results := buildBatch(context.Background(), &testPool{size: 1}, nil, storyfile.Options{}); results != nil {
			t.Errorf("results = %v, want nil", results)
		}
	})

	t.Run("renderer creation failure", func(t *testing.T) {
		t.Parallel()

		files := []StoryToBuild{{InputPath: "a.story.yaml"}, {InputPath: "b.story.yaml"}}
		results := buildBatch(context.Background(), &testPool{size: 1}, files, storyfile.Options{})
		for _, r := range results {
			if !errors.Is(r.Err, ErrRendererInit) {
				t.Errorf("%s error = %v, want ErrRendererInit", r.InputPath, r.Err)
			}
		}
	})

	t.Run("render errors are per file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeStory(t, dir, "good"+storyfile.Extension, "Good")
		bad := writeStory(t, dir, "bad"+storyfile.Extension, "Bad")
		mock := &mockRenderer{renderFunc: func(_ context.Context, doc *pdftour.Document) ([]byte, error) {
			if doc.Title == "Bad" {
				return nil, pdftour.ErrPDFGeneration
			}
			return []byte("%PDF-1.4 mock"), nil
		}}
		files := []StoryToBuild{
			{InputPath: good, OutputPath: filepath.Join(dir, "good.pdf")},
			{InputPath: bad, OutputPath: filepath.Join(dir, "bad.pdf")},
		}

		results := buildBatch(context.Background(), &testPool{r: mock, size: 2}, files, storyfile.Options{})
		if results[0].Err != nil {
			t.Errorf("good error: %v", results[0].Err)
		}
		if !errors.Is(results[1].Err, pdftour.ErrPDFGeneration) {
			t.Errorf("bad error = %v, want ErrPDFGeneration", results[1].Err)
		}
		if countFailed(results) != 1 || !errors.Is(firstError(results), pdftour.ErrPDFGeneration) {
			t.Errorf("countFailed = %d, firstError = %v", countFailed(results), firstError(results))
		}
	})

	t.Run("invalid story", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "broken"+storyfile.Extension)
		if err := os.WriteFile(in, []byte("blocks:\n  - type: chart\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		files := []StoryToBuild{{InputPath: in, OutputPath: filepath.Join(dir, "broken.pdf")}}
		results := buildBatch(context.Background(), &testPool{r: &mockRenderer{}, size: 1}, files, storyfile.Options{})
		if !errors.Is(results[0].Err, storyfile.ErrUnknownBlockType) {
			t.Errorf("error = %v, want ErrUnknownBlockType", results[0].Err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		files := []StoryToBuild{{InputPath: "a.story.yaml"}}
		results := buildBatch(ctx, &testPool{r: &mockRenderer{}, size: 1}, files, storyfile.Options{})
		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", results[0].Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintBuildResults - Output modes
// ---------------------------------------------------------------------------

func TestPrintBuildResults(t *testing.T) {
	t.Parallel()

	results := []BuildResult{
		{InputPath: "a.story.yaml", OutputPath: "a.pdf"},
		{InputPath: "b.story.yaml", Err: errors.New("boom")},
	}

	tests := []struct {
		name           string
		quiet, verbose bool
		wantStdout     []string
		wantNoStdout   bool
	}{
		{name: "normal", wantStdout: []string{"Created a.pdf", "1 succeeded, 1 failed"}},
		{name: "verbose", verbose: true, wantStdout: []string{"a.story.yaml -> a.pdf"}},
		{name: "quiet", quiet: true, wantNoStdout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()
			if failed := printBuildResults(results, tt.quiet, tt.verbose, env); failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			if !strings.Contains(stderr.String(), "FAILED b.story.yaml: boom") {
				t.Errorf("stderr = %q", stderr.String())
			}
			if tt.wantNoStdout && stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", stdout.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout = %q, want %q", stdout.String(), want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunBuildCmd - End to end with fpdf
// ---------------------------------------------------------------------------

func TestRunBuildCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStory(t, dir, "one"+storyfile.Extension, "One")
	writeStory(t, dir, filepath.Join("nested", "two"+storyfile.Extension), "Two")
	out := filepath.Join(t.TempDir(), "pdf")

	env, stdout, stderr := newTestEnv()
	if err := runBuildCmd(context.Background(), []string{dir, "-o", out, "-w", "2"}, env); err != nil {
		t.Fatalf("runBuildCmd() error: %v\nstderr: %s", err, stderr.String())
	}

	for _, rel := range []string{"one.pdf", filepath.Join("nested", "two.pdf")} {
		data, err := os.ReadFile(filepath.Join(out, rel))
		if err != nil {
			t.Fatalf("%s: %v", rel, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("%s is not a PDF", rel)
		}
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}

	t.Run("no story files", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		err := runBuildCmd(context.Background(), []string{t.TempDir(), "-q"}, env)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("failed build is reported", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "bad"+storyfile.Extension)
		if err := os.WriteFile(in, []byte("blocks: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		env, _, _ := newTestEnv()
		err := runBuildCmd(context.Background(), []string{in, "-q"}, env)
		var be *batchError
		if !errors.As(err, &be) || be.failed != 1 {
			t.Errorf("error = %v, want a batch error", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDiscoverStories - Inputs and output paths
// ---------------------------------------------------------------------------

func TestDiscoverStories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	one := writeStory(t, dir, "one"+storyfile.Extension, "One")
	writeStory(t, dir, filepath.Join("sub", "Two.STORY.YAML"), "Two")
	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		files, err := discoverStories(dir, "out")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 2 {
			t.Fatalf("got %d files, want 2: %v", len(files), files)
		}
		if files[0].OutputPath != filepath.Join("out", "one.pdf") {
			t.Errorf("first output = %s", files[0].OutputPath)
		}
		if files[1].OutputPath != filepath.Join("out", "sub", "Two.pdf") {
			t.Errorf("second output = %s", files[1].OutputPath)
		}
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		files, err := discoverStories(one, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "one.pdf") {
			t.Errorf("files = %v", files)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverStories(filepath.Join(dir, "notes.yaml"), "")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverStories(filepath.Join(dir, "missing"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{"next to the input", filepath.Join("docs", "a.story.yaml"), "", "", filepath.Join("docs", "a.pdf")},
		{"into a directory", filepath.Join("docs", "a.story.yaml"), "out", "", filepath.Join("out", "a.pdf")},
		{"explicit pdf", "a.story.yaml", "report.pdf", "", "report.pdf"},
		{"relative dirs kept", filepath.Join("docs", "x", "a.story.yaml"), "out", "docs", filepath.Join("out", "x", "a.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, pdftour.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error: %v", n, err)
		}
	}
	for _, n := range []int{-1, pdftour.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

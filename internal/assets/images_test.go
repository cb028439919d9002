package assets

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestImageSpec_Render(t *testing.T) {
	t.Parallel()

	for _, spec := range Images {
		t.Run(spec.Name, func(t *testing.T) {
			t.Parallel()

			data, err := spec.Render()
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if format != "jpeg" {
				t.Errorf("format = %q, want jpeg", format)
			}
			if cfg.Width != spec.Width || cfg.Height != spec.Height {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, spec.Width, spec.Height)
			}
		})
	}
}

func TestImageSpec_RenderInvalid(t *testing.T) {
	t.Parallel()

	if _, err := (ImageSpec{Name: "empty.jpg"}).Render(); err == nil {
		t.Error("Render() of an empty spec: expected error")
	}
}

func TestLookupImage(t *testing.T) {
	t.Parallel()

	spec, ok := LookupImage(ImageHeart)
	if !ok || spec.Width != 450 || spec.Height != 500 {
		t.Errorf("LookupImage(heart) = %+v, %v", spec, ok)
	}
	if _, ok := LookupImage("images/missing.jpg"); ok {
		t.Error("LookupImage(missing) found an image")
	}
}

func TestWriteSamples(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	written, err := WriteSamples(dir, NewEmbeddedLoader(), false)
	if err != nil {
		t.Fatalf("WriteSamples() error = %v", err)
	}

	names, _ := Names()
	if want := len(names) + len(Images); len(written) != want {
		t.Errorf("wrote %d files, want %d", len(written), want)
	}
	for _, p := range written {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	// Existing files are kept.
	raven := filepath.Join(dir, SampleRaven)
	writeTestFile(t, raven, "edited")
	again, err := WriteSamples(dir, NewEmbeddedLoader(), false)
	if err != nil {
		t.Fatalf("second WriteSamples() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second run wrote %v, want nothing", again)
	}
	if got, _ := os.ReadFile(raven); string(got) != "edited" {
		t.Errorf("raven overwritten: %q", got)
	}

	// Unless asked to overwrite.
	if _, err := WriteSamples(dir, NewEmbeddedLoader(), true); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(raven); string(got) == "edited" {
		t.Error("raven not overwritten with overwrite set")
	}
}

func TestEnsureImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := EnsureImage(dir, ImageRaven)
	if err != nil {
		t.Fatalf("EnsureImage() error = %v", err)
	}
	if path != filepath.Join(dir, "images", "234-the-raven-q75-445x500.jpg") {
		t.Errorf("path = %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := jpeg.DecodeConfig(f); err != nil {
		t.Errorf("not a JPEG: %v", err)
	}

	if _, err := EnsureImage(dir, "images/missing.jpg"); err == nil {
		t.Error("EnsureImage(missing) expected error")
	}
}

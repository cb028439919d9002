package assets

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestEmbeddedLoader_Load(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("every built-in sample loads", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{SampleRaven, SampleWifi, SampleHeart, SampleStyleSheet, SampleStory} {
			got, err := loader.Load(name)
			if err != nil {
				t.Errorf("Load(%q) error = %v", name, err)
				continue
			}
			if len(got) == 0 {
				t.Errorf("Load(%q) returned empty content", name)
			}
		}
	})

	t.Run("raven is long enough to be snipped", func(t *testing.T) {
		t.Parallel()

		got, err := loader.Load(SampleRaven)
		if err != nil {
			t.Fatal(err)
		}
		if n := bytes.Count(got, []byte("\n")); n < 35 {
			t.Errorf("raven has %d lines, want at least 35", n)
		}
	})

	t.Run("csv header", func(t *testing.T) {
		t.Parallel()

		got, err := loader.Load(SampleWifi)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(got, []byte("Device,Downloaded (MB),Uploaded (MB)\n")) {
			t.Errorf("unexpected header: %q", got[:40])
		}
	})

	t.Run("returns ErrSampleNotFound for nonexistent", func(t *testing.T) {
		t.Parallel()

		_, err := loader.Load("nonexistent-xyz.txt")
		if !errors.Is(err, ErrSampleNotFound) {
			t.Errorf("Load() error = %v, want ErrSampleNotFound", err)
		}
	})

	t.Run("returns ErrInvalidAssetName for traversal", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"../embedded.go", "samples/styles.yaml", ""} {
			if _, err := loader.Load(name); !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("Load(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		}
	})
}

func TestEmbeddedLoader_Names(t *testing.T) {
	t.Parallel()

	names, err := NewEmbeddedLoader().Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{SampleWifi, SampleRaven, SampleStyleSheet, SampleHeart, SampleStory}
	slices.Sort(want)
	if !slices.Equal(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestPackageLevelLoad(t *testing.T) {
	t.Parallel()

	if _, err := Load(SampleHeart); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	names, err := Names()
	if err != nil || len(names) == 0 {
		t.Errorf("Names() = %v, %v", names, err)
	}
}

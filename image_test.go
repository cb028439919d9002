package pdftour

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestImageSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, h, err := ImageSize(writeJPEG(t, dir, 445, 500))
	if err != nil {
		t.Fatalf("ImageSize() error = %v", err)
	}
	if w != 445 || h != 500 {
		t.Errorf("ImageSize() = (%v, %v), want (445, 500)", w, h)
	}

	notImage := filepath.Join(dir, "notes.jpg")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ImageSize(notImage); !errors.Is(err, ErrImage) {
		t.Errorf("ImageSize(not an image) error = %v, want ErrImage", err)
	}
	if _, _, err := ImageSize(filepath.Join(dir, "missing.jpg")); !errors.Is(err, ErrImage) {
		t.Errorf("ImageSize(missing) error = %v, want ErrImage", err)
	}
}

func TestFitImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h         float64
		wantW, wantH float64
	}{
		{"natural size", 0, 0, 450, 500},
		{"width keeps aspect", 90, 0, 90, 100},
		{"height keeps aspect", 0, 50, 45, 50},
		{"both given", 10, 10, 10, 10},
	}
	for _, tt := range tests {
		gotW, gotH := fitImage(450, 500, tt.w, tt.h)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("%s: fitImage() = (%v, %v), want (%v, %v)", tt.name, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

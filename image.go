package pdftour

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
)

// ImageSize returns the natural size of the image at path in points,
// assuming 72 dpi, without decoding the pixels.
func ImageSize(path string) (width, height float64, err error) {
	f, err := os.Open(path) // #nosec G304 -- image paths come from the document
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrImage, err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrImage, path, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// fitImage applies the Image block sizing rule to a natural size: zero on
// both sides keeps the natural size, zero on one side keeps the aspect ratio.
func fitImage(natW, natH, w, h float64) (float64, float64) {
	switch {
	case w <= 0 && h <= 0:
		return natW, natH
	case w <= 0:
		return natW * h / natH, h
	case h <= 0:
		return w, natH * w / natW
	}
	return w, h
}

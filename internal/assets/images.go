package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Generated image names, relative to a sample directory.
const (
	ImageDir   = "images"
	ImageHeart = ImageDir + "/025-detail-flaming-heart-q75-450x500.jpg"
	ImageRaven = ImageDir + "/234-the-raven-q75-445x500.jpg"
)

// JPEGQuality is the quality the images are encoded with.
const JPEGQuality = 75

// sketchDivisor is the ratio between the painted sketch and the final
// image, which is upscaled with a Catmull-Rom kernel.
const sketchDivisor = 4

// ImageSpec describes a generated image.
type ImageSpec struct {
	Name          string
	Width, Height int
	Label         string
	// paint returns the colour at (u, v), both in [0, 1], v downwards.
	paint func(u, v float64) color.RGBA
}

// Images lists the generated images.
var Images = []ImageSpec{
	{Name: ImageHeart, Width: 450, Height: 500, Label: "flaming heart", paint: paintHeart},
	{Name: ImageRaven, Width: 445, Height: 500, Label: "the raven", paint: paintRaven},
}

// LookupImage returns the spec of the named image.
func LookupImage(name string) (ImageSpec, bool) {
	for _, spec := range Images {
		if spec.Name == name {
			return spec, true
		}
	}
	return ImageSpec{}, false
}

// Render paints the image and encodes it as JPEG.
func (s ImageSpec) Render() ([]byte, error) {
	if s.Width < sketchDivisor || s.Height < sketchDivisor || s.paint == nil {
		return nil, fmt.Errorf("%w: %q has no size or painter", ErrAssetWrite, s.Name)
	}

	sketch := image.NewRGBA(image.Rect(0, 0, s.Width/sketchDivisor, s.Height/sketchDivisor))
	sb := sketch.Bounds()
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			u := (float64(x) + 0.5) / float64(sb.Dx())
			v := (float64(y) + 0.5) / float64(sb.Dy())
			sketch.SetRGBA(x, y, s.paint(u, v))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), sketch, sb, draw.Src, nil)

	if s.Label != "" {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.White),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(8, s.Height-8),
		}
		d.DrawString(s.Label)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetWrite, s.Name, err)
	}
	return buf.Bytes(), nil
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

var (
	ember  = color.RGBA{60, 8, 8, 255}
	flame  = color.RGBA{255, 190, 40, 255}
	blood  = color.RGBA{200, 20, 30, 255}
	dusk   = color.RGBA{70, 80, 105, 255}
	mist   = color.RGBA{170, 180, 195, 255}
	plumes = color.RGBA{15, 15, 20, 255}
	timber = color.RGBA{90, 60, 35, 255}
	gold   = color.RGBA{230, 170, 40, 255}
)

// paintHeart draws a heart on a dark ground with flames rising above it.
func paintHeart(u, v float64) color.RGBA {
	x := (u - 0.5) * 3
	y := (0.6 - v) * 3

	// (x² + y² - 1)³ - x²y³ <= 0 is the inside of the heart.
	r := x*x + y*y - 1
	if r*r*r-x*x*y*y*y <= 0 {
		return mix(flame, blood, math.Hypot(x, y-0.2))
	}

	// Flame tongues above the heart.
	if v < 0.42 {
		width := 0.08 + 0.06*math.Sin(u*40) + (0.42-v)*0.1
		if math.Abs(u-0.5) < width*(v/0.42)*2.5 {
			return mix(flame, blood, 1-v/0.42)
		}
	}
	return mix(ember, blood, 0.3*(1-v))
}

// paintRaven draws a raven perched on a bust against a night sky.
func paintRaven(u, v float64) color.RGBA {
	inEllipse := func(cx, cy, rx, ry float64) bool {
		dx, dy := (u-cx)/rx, (v-cy)/ry
		return dx*dx+dy*dy <= 1
	}

	switch {
	case inEllipse(0.62, 0.26, 0.015, 0.015):
		return gold // eye
	case u > 0.66 && u < 0.82 && math.Abs(v-0.29) < (0.82-u)*0.35:
		return plumes // beak
	case inEllipse(0.58, 0.28, 0.1, 0.09):
		return plumes // head
	case inEllipse(0.48, 0.52, 0.2, 0.26):
		return plumes // body
	case u > 0.25 && u < 0.4 && v > 0.6 && v < 0.78 && v-0.6 < (u-0.25)*1.4:
		return plumes // tail
	case v > 0.78 && v < 0.83 && u > 0.15 && u < 0.85:
		return timber // perch
	case v >= 0.83 && math.Abs(u-0.5) < 0.18+0.2*(v-0.83):
		return mist // bust
	}
	return mix(dusk, ember, v)
}

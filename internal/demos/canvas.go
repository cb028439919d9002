package demos

import (
	"context"
	"strings"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
)

// helloWorld draws a single string in the middle of an A4 page. Canvas
// coordinates start at the lower left corner.
func helloWorld(ctx context.Context, _ *Env, out string) error {
	c, err := pdftour.NewCanvas(pdftour.DefaultPageSettings())
	if err != nil {
		return err
	}
	c.SetInfo("Hello World", "")

	c.SetFontSize(60)
	w, h := c.PageSize()
	c.DrawCentredString(w/2, h/2, "Hello World")

	return c.Save(ctx, out)
}

// textLeading is the line spacing of canvasText.
const textLeading = 14.0

// canvasText walks down a red centre line, placing lines of the poem with
// each string method, then with a text object, using translations pushed
// on the state stack. Finally it draws an image fitted to a box.
func canvasText(ctx context.Context, env *Env, out string) error {
	data, err := env.input(assets.SampleRaven)
	if err != nil {
		return err
	}
	poem := newLineFeed(string(data))

	imgPath, err := env.image(assets.ImageRaven)
	if err != nil {
		return err
	}

	c, err := pdftour.NewCanvas(pdftour.DefaultPageSettings())
	if err != nil {
		return err
	}
	c.SetInfo("Canvas text", "")
	c.SetFontSize(10)
	_, pageH := c.PageSize()

	c.SaveState()
	c.Translate(105*pdftour.MM, 0)
	c.SetStrokeColor(pdftour.Red)
	c.Line(0, 0, 0, pageH)
	c.Translate(0, 260*pdftour.MM)

	methods := []struct {
		label string
		draw  func(x, y float64, s string)
	}{
		{"Canvas.DrawString", c.DrawString},
		{"Canvas.DrawCentredString", c.DrawCentredString},
		{"Canvas.DrawRightString", c.DrawRightString},
	}
	for i, m := range methods {
		if i > 0 {
			c.Translate(0, -20*pdftour.MM)
		}
		c.DrawString(-100*pdftour.MM, 0, m.label)
		c.Translate(0, -textLeading)
		for range 2 {
			c.Translate(0, -textLeading)
			m.draw(0, 0, poem.next())
		}
	}

	c.Translate(0, -20*pdftour.MM)
	c.DrawString(-100*pdftour.MM, 0, "Canvas.BeginText (text object)")
	c.Translate(0, -2*textLeading)

	t := c.BeginText()
	t.SetOrigin(0, 0)
	t.SetFont("Times-Italic", 10, 0)
	for range 6 {
		t.TextLine(poem.next())
	}
	t.TextLine("")
	t.TextLines(poem.take(5))

	// One word at a time, marking the cursor after each.
	for _, word := range strings.Fields(poem.next()) {
		t.TextOut(word + " ")
		x, y := t.Cursor()
		c.SaveState()
		c.SetFillColor(pdftour.Red)
		c.DrawCentredString(x, y-10, "|")
		c.DrawCentredString(x, y-10, "^")
		c.RestoreState()
	}
	c.DrawText(t)
	c.RestoreState()

	natW, natH, err := pdftour.ImageSize(imgPath)
	if err != nil {
		return err
	}
	x, y, w, h := fitCentred(natW, natH, 10*pdftour.MM, 10*pdftour.MM, 70*pdftour.MM, 100*pdftour.MM)
	if err := c.DrawImage(imgPath, x, y, w, h); err != nil {
		return err
	}

	return c.Save(ctx, out)
}

// fitCentred scales a natW x natH image to fit the box at (x, y) of size
// boxW x boxH, keeping its aspect ratio, and centres it in the box.
func fitCentred(natW, natH, x, y, boxW, boxH float64) (float64, float64, float64, float64) {
	if natW <= 0 || natH <= 0 {
		return x, y, boxW, boxH
	}
	scale := min(boxW/natW, boxH/natH)
	w, h := natW*scale, natH*scale
	return x + (boxW-w)/2, y + (boxH-h)/2, w, h
}

// lineFeed hands out the non-blank lines of a text, trimmed. Once
// exhausted it returns empty strings.
type lineFeed struct {
	lines []string
}

func newLineFeed(text string) *lineFeed {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return &lineFeed{lines: lines}
}

func (f *lineFeed) next() string {
	if len(f.lines) == 0 {
		return ""
	}
	l := f.lines[0]
	f.lines = f.lines[1:]
	return l
}

// take joins the next n lines with newlines.
func (f *lineFeed) take(n int) string {
	out := make([]string, 0, n)
	for range n {
		out = append(out, f.next())
	}
	return strings.Join(out, "\n")
}

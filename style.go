package pdftour

import (
	"fmt"
	"sort"
	"strings"
)

// Alignment is the horizontal alignment of paragraph text.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlignment parses "left", "center" (or "centre"), "right" and
// "justify". The empty string is left.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustify, nil
	}
	return AlignLeft, fmt.Errorf("%w: unknown alignment %q", ErrInvalidStyle, s)
}

// fpdfAlign maps an alignment to fpdf's alignment letters.
func (a Alignment) fpdfAlign() string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	case AlignJustify:
		return "J"
	default:
		return "L"
	}
}

// Core font families available without embedding.
const (
	FontTimes     = "Times"
	FontHelvetica = "Helvetica"
	FontCourier   = "Courier"
)

// Style describes how a paragraph-like block is set. Styles are values:
// copying one never shares state with the original.
type Style struct {
	Name          string
	Font          string
	Size          float64 // points
	Leading       float64 // baseline-to-baseline distance; 0 means 1.2 * Size
	Alignment     Alignment
	SpaceBefore   float64
	SpaceAfter    float64
	Background    *Color
	TextColor     Color
	BorderPadding float64
	Bold          bool
	Italic        bool
}

// Derive returns a child style named name that inherits every attribute of
// s, then applies override. s is left untouched.
func (s Style) Derive(name string, override func(*Style)) Style {
	child := s
	child.Name = name
	if s.Background != nil {
		bg := *s.Background
		child.Background = &bg
	}
	if override != nil {
		override(&child)
	}
	return child
}

// LineHeight returns the leading, falling back to 1.2 times the font size.
func (s Style) LineHeight() float64 {
	if s.Leading > 0 {
		return s.Leading
	}
	return s.Size * 1.2
}

// Validate checks that the style can be rendered.
func (s Style) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStyle)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: %q: size must be positive", ErrInvalidStyle, s.Name)
	}
	if s.Leading < 0 || s.SpaceBefore < 0 || s.SpaceAfter < 0 || s.BorderPadding < 0 {
		return fmt.Errorf("%w: %q: negative spacing", ErrInvalidStyle, s.Name)
	}
	if !isCoreFont(s.Font) {
		return fmt.Errorf("%w: %q: unsupported font %q", ErrInvalidStyle, s.Name, s.Font)
	}
	return nil
}

// fontStyle returns fpdf's style letters for the bold/italic flags.
func fontStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	}
	return ""
}

func isCoreFont(family string) bool {
	switch strings.ToLower(family) {
	case "times", "helvetica", "arial", "courier":
		return true
	}
	return false
}

// StyleSheet is an immutable registry of named styles.
type StyleSheet struct {
	styles map[string]Style
}

// NewStyleSheet builds a sheet from styles. A later style replaces an
// earlier one with the same name.
func NewStyleSheet(styles ...Style) *StyleSheet {
	sheet := &StyleSheet{styles: make(map[string]Style, len(styles))}
	for _, st := range styles {
		sheet.styles[st.Name] = st.Derive(st.Name, nil)
	}
	return sheet
}

// Get returns the style registered under name.
func (s *StyleSheet) Get(name string) (Style, error) {
	if s != nil {
		if st, ok := s.styles[name]; ok {
			return st.Derive(st.Name, nil), nil
		}
	}
	return Style{}, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
}

// With returns a new sheet holding the receiver's styles plus styles.
// The receiver is not modified.
func (s *StyleSheet) With(styles ...Style) *StyleSheet {
	all := make([]Style, 0, s.Len()+len(styles))
	if s != nil {
		for _, st := range s.styles {
			all = append(all, st)
		}
	}
	all = append(all, styles...)
	return NewStyleSheet(all...)
}

// Names returns the registered style names, sorted.
func (s *StyleSheet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.styles))
	for name := range s.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of styles.
func (s *StyleSheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.styles)
}

// Default style names.
const (
	StyleBody        = "body"
	StyleTitle       = "title"
	StylePre         = "pre"
	StyleCode        = "code"
	StylePlainText   = "plaintext"
	StyleTitleText   = "titletext"
	StyleSubtitle    = "subtitle"
	StyleDescription = "description"
)

// DefaultStyleSheet returns the styles shared by the demos.
func DefaultStyleSheet() *StyleSheet {
	body := Style{
		Name:       StyleBody,
		Font:       FontTimes,
		Size:       14,
		Leading:    17,
		Alignment:  AlignJustify,
		SpaceAfter: 20,
	}
	title := body.Derive(StyleTitle, func(s *Style) {
		s.Size = 26
		s.Leading = 31
		s.Alignment = AlignCenter
		s.Bold = true
		s.SpaceAfter = 12
	})
	pre := Style{
		Name:          StylePre,
		Font:          FontCourier,
		Size:          9,
		Leading:       9,
		BorderPadding: 6,
		SpaceBefore:   12,
		SpaceAfter:    12,
	}
	code := pre.Derive(StyleCode, func(s *Style) {
		bg := WhiteSmoke
		s.Background = &bg
	})
	plain := pre.Derive(StylePlainText, func(s *Style) {
		bg := LightGreen
		s.Background = &bg
	})
	titleText := Style{
		Name:        StyleTitleText,
		Font:        FontHelvetica,
		Size:        14,
		Leading:     16,
		Bold:        true,
		SpaceBefore: 24,
		SpaceAfter:  6,
	}
	subtitle := titleText.Derive(StyleSubtitle, func(s *Style) {
		s.Size = 12
		s.Leading = 15
		s.SpaceBefore = 6
		s.SpaceAfter = 6
	})
	description := body.Derive(StyleDescription, func(s *Style) {
		s.Size = 11
		s.Leading = 14
		s.SpaceAfter = 6
	})

	return NewStyleSheet(body, title, pre, code, plain, titleText, subtitle, description)
}

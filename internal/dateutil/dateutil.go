// Package dateutil resolves the dates printed in page footers.
//
// A date value is either literal text, printed as is, or "auto" with an
// optional format: "auto", "auto:DD/MM/YYYY", "auto:long".
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length.
const MaxFormatLength = 50

// DefaultFormat is used for a bare "auto".
const DefaultFormat = "YYYY-MM-DD"

// autoKeyword starts a value resolved from the clock.
const autoKeyword = "auto"

// Presets are named formats, matched case-insensitively.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"full":     "dddd D MMMM YYYY",
	"stamp":    "YYYY-MM-DD HH:mm",
}

type token struct {
	name   string
	layout string // Go reference layout
}

// tokens is sorted longest first so the longest name wins.
var tokens = func() []token {
	t := []token{
		{"YYYY", "2006"},
		{"YY", "06"},
		{"MMMM", "January"},
		{"MMM", "Jan"},
		{"MM", "01"},
		{"M", "1"},
		{"dddd", "Monday"},
		{"ddd", "Mon"},
		{"DD", "02"},
		{"D", "2"},
		{"HH", "15"},
		{"mm", "04"},
	}
	sort.SliceStable(t, func(i, j int) bool { return len(t[i].name) > len(t[j].name) })
	return t
}()

// segment is literal text or a single Go layout element. Keeping literals
// apart stops Format from reading "Jan" or "2" inside them as layout.
type segment struct {
	literal string
	layout  string
}

// Layout is a compiled date format.
type Layout struct {
	source string
	segs   []segment
}

// Compile parses a format made of the tokens YYYY, YY, MMMM, MMM, MM, M,
// dddd, ddd, DD, D, HH and mm. Text in brackets is literal: "[Week of] D".
// Other characters are kept as they are.
func Compile(format string) (Layout, error) {
	if format == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	l := Layout{source: format}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.segs = append(l.segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if tok, ok := matchToken(format[i:]); ok {
			flush()
			l.segs = append(l.segs, segment{layout: tok.layout})
			i += len(tok.name)
			continue
		}
		lit.WriteByte(format[i])
		i++
	}
	flush()
	return l, nil
}

func matchToken(s string) (token, bool) {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.name) {
			return t, true
		}
	}
	return token{}, false
}

// Format returns t formatted with the layout.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, s := range l.segs {
		if s.layout == "" {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(t.Format(s.layout))
	}
	return b.String()
}

// String returns the format the layout was compiled from.
func (l Layout) String() string { return l.source }

// ResolveDate returns the footer date for value at time now:
//   - "auto" formats now with DefaultFormat;
//   - "auto:FORMAT" formats now with FORMAT or the preset of that name;
//   - anything else is returned unchanged.
//
// Values starting with "auto" in any other way are rejected as typos.
func ResolveDate(value string, now time.Time) (string, error) {
	keyword, format, hasFormat := strings.Cut(value, ":")
	if !strings.EqualFold(keyword, autoKeyword) {
		if strings.HasPrefix(strings.ToLower(value), autoKeyword) {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		return value, nil
	}

	switch {
	case !hasFormat:
		format = DefaultFormat
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	l, err := Compile(format)
	if err != nil {
		return "", err
	}
	return l.Format(now), nil
}

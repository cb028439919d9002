package storyfile

import (
	"fmt"
	"strconv"
	"strings"

	pdftour "github.com/alnah/go-pdftour"
)

// Length is a distance in points. In YAML it is a bare number of points or
// a number with one of the units pt, mm, cm or in: 12, "25mm", "0.5in".
type Length float64

var lengthUnits = []struct {
	suffix string
	points float64
}{
	{"pt", pdftour.Point},
	{"mm", pdftour.MM},
	{"cm", pdftour.CM},
	{"in", pdftour.Inch},
}

// ParseLength parses a length with an optional unit suffix.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	scale := 1.0
	for _, u := range lengthUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			scale = u.points
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length %q", ErrInvalidStory, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative length %q", ErrInvalidStory, s)
	}
	return Length(v * scale), nil
}

// UnmarshalYAML accepts numbers and unit strings.
func (l *Length) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	var v float64
	switch x := raw.(type) {
	case nil:
		v = 0
	case uint64:
		v = float64(x)
	case int64:
		v = float64(x)
	case int:
		v = float64(x)
	case float64:
		v = x
	case string:
		parsed, err := ParseLength(x)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	default:
		return fmt.Errorf("%w: invalid length %v", ErrInvalidStory, raw)
	}
	if v < 0 {
		return fmt.Errorf("%w: negative length %v", ErrInvalidStory, v)
	}
	*l = Length(v)
	return nil
}

// Points returns l as a plain number of points.
func (l Length) Points() float64 {
	return float64(l)
}

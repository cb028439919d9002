package pdftour

import (
	"fmt"
	"strings"

	"github.com/alnah/go-pdftour/internal/yamlutil"
)

// styleSheetFile is the YAML layout read by LoadStyleSheet.
type styleSheetFile struct {
	Styles []styleSpec `yaml:"styles"`
}

// styleSpec lists overrides; nil fields are inherited.
type styleSpec struct {
	Name          string   `yaml:"name"`
	Parent        string   `yaml:"parent"`
	Font          *string  `yaml:"font"`
	Size          *float64 `yaml:"size"`
	Leading       *float64 `yaml:"leading"`
	Alignment     *string  `yaml:"alignment"`
	SpaceBefore   *float64 `yaml:"spaceBefore"`
	SpaceAfter    *float64 `yaml:"spaceAfter"`
	Background    *string  `yaml:"background"`
	TextColor     *string  `yaml:"textColor"`
	BorderPadding *float64 `yaml:"borderPadding"`
	Bold          *bool    `yaml:"bold"`
	Italic        *bool    `yaml:"italic"`
}

// LoadStyleSheet reads styles from YAML and layers them over base (which may
// be nil). A style names its parent with "parent:"; the parent must come
// from base or be declared earlier in the same file. Without a parent, a
// style of the same name in base is extended, otherwise it starts empty.
//
//	styles:
//	  - name: note
//	    parent: body
//	    size: 10
//	    background: lightgrey
func LoadStyleSheet(data []byte, base *StyleSheet) (*StyleSheet, error) {
	var file styleSheetFile
	if err := yamlutil.Decode(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}

	sheet := base
	if sheet == nil {
		sheet = NewStyleSheet()
	}

	for i, spec := range file.Styles {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, fmt.Errorf("%w: style #%d has no name", ErrInvalidStyle, i+1)
		}

		var start Style
		switch {
		case spec.Parent != "":
			parent, err := sheet.Get(spec.Parent)
			if err != nil {
				return nil, fmt.Errorf("style %q: %w", spec.Name, err)
			}
			start = parent
		default:
			if existing, err := sheet.Get(spec.Name); err == nil {
				start = existing
			}
		}

		st, err := spec.apply(start)
		if err != nil {
			return nil, err
		}
		if err := st.Validate(); err != nil {
			return nil, err
		}
		sheet = sheet.With(st)
	}
	return sheet, nil
}

// apply derives the style described by spec from parent.
func (spec styleSpec) apply(parent Style) (Style, error) {
	var applyErr error
	st := parent.Derive(spec.Name, func(s *Style) {
		if spec.Font != nil {
			s.Font = *spec.Font
		}
		if spec.Size != nil {
			s.Size = *spec.Size
		}
		if spec.Leading != nil {
			s.Leading = *spec.Leading
		}
		if spec.SpaceBefore != nil {
			s.SpaceBefore = *spec.SpaceBefore
		}
		if spec.SpaceAfter != nil {
			s.SpaceAfter = *spec.SpaceAfter
		}
		if spec.BorderPadding != nil {
			s.BorderPadding = *spec.BorderPadding
		}
		if spec.Bold != nil {
			s.Bold = *spec.Bold
		}
		if spec.Italic != nil {
			s.Italic = *spec.Italic
		}
		if spec.Alignment != nil {
			a, err := ParseAlignment(*spec.Alignment)
			if err != nil {
				applyErr = err
				return
			}
			s.Alignment = a
		}
		if spec.Background != nil {
			if strings.EqualFold(*spec.Background, "none") {
				s.Background = nil
			} else {
				c, err := ParseColor(*spec.Background)
				if err != nil {
					applyErr = err
					return
				}
				s.Background = &c
			}
		}
		if spec.TextColor != nil {
			c, err := ParseColor(*spec.TextColor)
			if err != nil {
				applyErr = err
				return
			}
			s.TextColor = c
		}
	})
	if applyErr != nil {
		return Style{}, fmt.Errorf("style %q: %w", spec.Name, applyErr)
	}
	return st, nil
}

// Package fontenc converts UTF-8 text into the single-byte encoding used by
// the PDF core fonts (Courier, Helvetica, Times).
package fontenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Replacement is written for runes that cp1252 cannot represent.
const Replacement = '?'

// TabWidth is the number of spaces a tab expands to in preformatted text.
const TabWidth = 4

// CP1252 encodes s to Windows-1252. Unencodable runes become Replacement.
func CP1252(s string) string {
	if isASCII(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(Replacement)
	}
	return b.String()
}

// ExpandTabs replaces tabs with spaces, aligning to TabWidth columns.
func ExpandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}

	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := TabWidth - col%TabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

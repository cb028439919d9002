package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns.
var (
	crlfOrCR       = regexp.MustCompile(`\r\n?`)
	blankLineSplit = regexp.MustCompile(`\n[ \t]*\n`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// CollapseWhitespace joins the lines of a flowing paragraph: every run of
// whitespace becomes a single space and the ends are trimmed.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// SplitParagraphs splits text on blank lines. Each paragraph has its lines
// collapsed into one; empty paragraphs are dropped.
func SplitParagraphs(text string) []string {
	text = NormalizeLineEndings(text)

	var paras []string
	for _, chunk := range blankLineSplit.Split(text, -1) {
		if p := CollapseWhitespace(chunk); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// SplitLines splits text into lines without the trailing empty element a
// final newline would produce.
func SplitLines(text string) []string {
	text = NormalizeLineEndings(text)
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

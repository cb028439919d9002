package pipeline

import (
	"strings"
	"testing"
)

func joinSpans(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlight_PreservesLines(t *testing.T) {
	t.Parallel()

	code := "import os\n\ndef main():\n    print(os.getcwd())\n"
	want := SplitLines(code)

	got, err := Highlight(code, "python", "")
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Highlight() returned %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if line := joinSpans(got[i]); line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}

	colored := false
	for _, line := range got {
		for _, s := range line {
			if s.HasColor {
				colored = true
			}
		}
	}
	if !colored {
		t.Error("expected at least one coloured token for python")
	}
}

func TestHighlight_Plain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		language string
	}{
		{name: "no language", language: ""},
		{name: "unknown language", language: "no-such-lexer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Highlight("a\tb\n\nc", tt.language, "")
			if err != nil {
				t.Fatalf("Highlight() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("got %d lines, want 3", len(got))
			}
			if joinSpans(got[0]) != "a\tb" || len(got[1]) != 0 || joinSpans(got[2]) != "c" {
				t.Errorf("unexpected lines: %#v", got)
			}
			for _, line := range got {
				for _, s := range line {
					if s.HasColor {
						t.Errorf("plain span %q should have no colour", s.Text)
					}
				}
			}
		})
	}
}

func TestCodeHTML(t *testing.T) {
	t.Parallel()

	out, err := CodeHTML("print('hi')", "python")
	if err != nil {
		t.Fatalf("CodeHTML() error = %v", err)
	}
	if !strings.Contains(out, "<pre") {
		t.Errorf("expected <pre> element, got %q", out)
	}
	if !strings.Contains(out, "style=") {
		t.Errorf("expected inline styles, got %q", out)
	}
	if !strings.Contains(out, "print") {
		t.Errorf("expected source text, got %q", out)
	}
}

func TestCodeHTML_FenceInCode(t *testing.T) {
	t.Parallel()

	out, err := CodeHTML("s = \"```\"", "")
	if err != nil {
		t.Fatalf("CodeHTML() error = %v", err)
	}
	if !strings.Contains(out, "```") {
		t.Errorf("fence characters inside code should survive, got %q", out)
	}
}

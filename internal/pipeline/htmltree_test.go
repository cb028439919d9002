package pipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestRenderDocument(t *testing.T) {
	t.Parallel()

	title := AppendAll(Element("title"), TextNode("Doc"))
	p := AppendAll(Element("p", "class", "body"), TextNode("a<b"))

	out, err := RenderDocument([]*html.Node{title}, []*html.Node{p})
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta charset="utf-8"/>`,
		"<title>Doc</title>",
		`<p class="body">a&lt;b</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFragment(t *testing.T) {
	t.Parallel()

	nodes, err := ParseFragment(`<pre><code>x</code></pre><p>y</p>`)
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Data != "pre" || nodes[1].Data != "p" {
		t.Errorf("unexpected nodes %q, %q", nodes[0].Data, nodes[1].Data)
	}
}

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "my file.pdf")
	got, err := PathToFileURL(path)
	if err != nil {
		t.Fatalf("PathToFileURL() error = %v", err)
	}
	if !strings.HasPrefix(got, "file://") {
		t.Errorf("expected file:// prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "my%20file.pdf") {
		t.Errorf("expected escaped file name, got %q", got)
	}
}

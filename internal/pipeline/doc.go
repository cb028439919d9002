// Package pipeline holds the text-processing stages shared by the renderers:
//   - text normalization (line endings, whitespace, paragraph splitting)
//   - inline markup parsing via goldmark (emphasis, code spans, <b>/<i> tags)
//   - source code highlighting via chroma, either as coloured spans for the
//     PDF canvas or as HTML for the browser backend
//   - HTML tree helpers built on golang.org/x/net/html
//
// The package works on plain strings so that both the fpdf and the Chrome
// renderer in the root package can use it without an import cycle.
package pipeline

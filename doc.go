// Package pdftour builds PDF documents from a sequence of content blocks,
// as walked through by the tutorial demos of the pdftour command.
//
// # Quick Start
//
// Build a story, wrap it in a document and render it:
//
//	sheet := pdftour.DefaultStyleSheet()
//	title, _ := sheet.Get(pdftour.StyleTitle)
//	body, _ := sheet.Get(pdftour.StyleBody)
//
//	story := pdftour.NewStory(
//	    pdftour.Heading{Text: "The Tell-Tale Heart", Style: title},
//	    pdftour.Spacer{Height: 25 * pdftour.MM},
//	    pdftour.Paragraph{Text: "True! *nervous*, very nervous...", Style: body},
//	)
//	doc := pdftour.NewDocument("The Tell-Tale Heart", story)
//
//	r, err := pdftour.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	if err := pdftour.RenderFile(ctx, r, doc, "heart.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Blocks and Styles
//
// A Story is an ordered, append-only list of blocks: Heading, Paragraph,
// Spacer, Image, Table, Preformatted, EmbeddedPage and PageBreak. Paragraph
// text accepts inline emphasis (*italic*, **bold**, `code`, <b>, <i>).
//
// Styles are values held in an immutable StyleSheet. Derive a child style
// from a parent with Style.Derive, or load a sheet from YAML with
// LoadStyleSheet.
//
// # Tables
//
// A TableStyle is an ordered list of rules over cell ranges. Later rules win
// on overlapping cells. ShadeNumeric appends one background rule per numeric
// cell, interpolating between two colours:
//
//	style := pdftour.NewTableStyle(pdftour.TableRule{
//	    Op: pdftour.LineAbove, From: pdftour.Cell(0, 0), To: pdftour.Cell(-1, 0),
//	    Width: 2, Color: pdftour.Green,
//	})
//	err := pdftour.ShadeNumeric(style, rows, []int{1, 2}, 1000, pdftour.White, pdftour.Red)
//
// # Canvas
//
// Page decorators and the low-level demos draw on a Canvas, using PDF
// coordinates: origin at the bottom left, y upwards, lengths in points.
// NewCanvas creates a standalone canvas backed by fpdf.
//
// # Backends
//
// BackendFPDF (the default) lays blocks out with go-pdf/fpdf and supports
// everything, including page decorators and embedded pages. BackendChrome
// converts the document to HTML and prints it with headless Chrome; it
// prints a standard footer instead of running decorators and shows embedded
// pages as framed placeholders.
//
// For batch builds, RendererPool hands out renderers to workers:
//
//	pool, err := pdftour.NewRendererPool(pdftour.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r := pool.Acquire()
//	defer pool.Release(r)
//
// # Browser Requirements
//
// The Chrome backend needs Chrome/Chromium. The go-rod library downloads a
// managed Chromium instance on first run (~/.cache/rod/browser/). Use
// ROD_BROWSER_BIN to specify a custom Chrome binary; the sandbox is disabled
// when it is set or when CI=true.
package pdftour

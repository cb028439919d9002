package demos

import (
	"bytes"
	"context"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/dateutil"
	"github.com/alnah/go-pdftour/internal/pipeline"
	"github.com/alnah/go-pdftour/internal/selfdoc"
)

// printDPI is the resolution page layout prints its image at.
const printDPI = 300.0

// storyTitle is the title of the story demos.
const storyTitle = "The Tell-Tale Heart"

// heartStory builds the opening shared by the page layout demos: a title,
// a 25mm gap, the story paragraphs and a 15mm gap.
func heartStory(env *Env) (*pdftour.Story, error) {
	title, err := env.Sheet.Get(pdftour.StyleTitle)
	if err != nil {
		return nil, err
	}
	body, err := env.Sheet.Get(pdftour.StyleBody)
	if err != nil {
		return nil, err
	}
	text, err := env.input(assets.SampleHeart)
	if err != nil {
		return nil, err
	}

	story := pdftour.NewStory(
		pdftour.Heading{Text: storyTitle, Style: title},
		pdftour.Spacer{Height: 25 * pdftour.MM},
	)
	for _, p := range pipeline.SplitParagraphs(string(text)) {
		story.Append(pdftour.Paragraph{Text: p, Style: body})
	}
	story.Append(pdftour.Spacer{Height: 15 * pdftour.MM})
	return story, nil
}

// storyDocument wraps story in a document with 40mm margins.
func storyDocument(title string, story *pdftour.Story) *pdftour.Document {
	doc := pdftour.NewDocument(title, story)
	doc.Page.Margins = pdftour.UniformMargins(40 * pdftour.MM)
	return doc
}

// pageLayout flows the story and prints the image at 300 dpi instead of
// the natural 72.
func pageLayout(ctx context.Context, env *Env, out string) error {
	story, err := heartStory(env)
	if err != nil {
		return err
	}
	img, err := env.image(assets.ImageHeart)
	if err != nil {
		return err
	}
	w, h, err := pdftour.ImageSize(img)
	if err != nil {
		return err
	}
	scale := 72 / printDPI
	story.Append(pdftour.Image{Path: img, Width: w * scale, Height: h * scale})

	return pdftour.RenderFile(ctx, env.Renderer, storyDocument(storyTitle, story), out)
}

// helloAgain sets only the image width; the height follows the aspect
// ratio.
func helloAgain(ctx context.Context, env *Env, out string) error {
	story, err := heartStory(env)
	if err != nil {
		return err
	}
	img, err := env.image(assets.ImageHeart)
	if err != nil {
		return err
	}
	story.Append(pdftour.Image{Path: img, Width: 40 * pdftour.MM})

	doc := storyDocument("Hello world", story)
	doc.Subject = "flowables example"
	return pdftour.RenderFile(ctx, env.Renderer, doc, out)
}

// Traffic table settings.
const (
	TrafficThreshold = 1000.0
	trafficTitle     = "Wi-Fi Network Traffic"
)

// TrafficColumns are the shaded columns: megabytes down and up.
var TrafficColumns = []int{1, 2}

// TrafficTableStyle returns the base rules of the traffic table: thick
// green lines around the header and below the last row, hairlines between
// data rows, numbers right aligned.
func TrafficTableStyle() pdftour.TableStyle {
	return pdftour.NewTableStyle(
		pdftour.TableRule{Op: pdftour.LineAbove, From: pdftour.Cell(0, 0), To: pdftour.Cell(-1, 0), Width: 2, Color: pdftour.Green},
		pdftour.TableRule{Op: pdftour.LineAbove, From: pdftour.Cell(0, 2), To: pdftour.Cell(-1, -1), Width: 0.25, Color: pdftour.Black},
		pdftour.TableRule{Op: pdftour.LineBelow, From: pdftour.Cell(0, -1), To: pdftour.Cell(-1, -1), Width: 2, Color: pdftour.Green},
		pdftour.TableRule{Op: pdftour.LineAbove, From: pdftour.Cell(0, 1), To: pdftour.Cell(-1, 1), Width: 2, Color: pdftour.Green},
		pdftour.TableRule{Op: pdftour.Align, From: pdftour.Cell(1, 1), To: pdftour.Cell(-1, -1), Align: pdftour.AlignRight},
	)
}

// TrafficTable builds the shaded traffic table from CSV rows: every
// megabyte cell goes from white at 0 to full red at the threshold.
func TrafficTable(rows [][]string, frameWidth float64) (pdftour.Table, error) {
	style := TrafficTableStyle()
	if err := pdftour.ShadeNumeric(&style, rows, TrafficColumns, TrafficThreshold, pdftour.White, pdftour.Red); err != nil {
		return pdftour.Table{}, err
	}

	t := pdftour.Table{Rows: rows, RepeatRows: 1, Style: style}
	if cols := t.Columns(); cols > 0 {
		t.ColWidths = make([]float64, cols)
		for i := range t.ColWidths {
			t.ColWidths[i] = frameWidth / float64(cols)
		}
	}
	return t, t.Validate()
}

func tables(ctx context.Context, env *Env, out string) error {
	title, err := env.Sheet.Get(pdftour.StyleTitle)
	if err != nil {
		return err
	}
	data, err := env.input(assets.SampleWifi)
	if err != nil {
		return err
	}
	rows, err := pdftour.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return err
	}

	doc := pdftour.NewDocument(trafficTitle, nil)
	doc.Page.Margins = pdftour.UniformMargins(20 * pdftour.MM)
	table, err := TrafficTable(rows, doc.Page.FrameWidth())
	if err != nil {
		return err
	}

	doc.Blocks = pdftour.NewStory(
		pdftour.Heading{Text: trafficTitle, Style: title},
		pdftour.Spacer{Height: 15 * pdftour.MM},
		table,
		pdftour.Spacer{Height: 15 * pdftour.MM},
	).Blocks()
	return pdftour.RenderFile(ctx, env.Renderer, doc, out)
}

// selfDocument renders every file of the working directory, the other
// demos' output included.
func selfDocument(ctx context.Context, env *Env, out string) error {
	opts := env.SelfDoc
	story, err := selfdoc.Build(env.Dir, selfdoc.Options{
		Sheet:    env.Sheet,
		Handlers: selfdoc.DefaultHandlers(opts.SnipLines),
		Output:   selfdoc.DefaultOutput,
		Exclude:  opts.Exclude,
		Progress: env.Progress,
	})
	if err != nil {
		return err
	}

	date, err := dateutil.ResolveDate(opts.Date, env.Now)
	if err != nil {
		return err
	}
	deco := selfdoc.Decorations{Title: opts.Title, PageInfo: opts.PageInfo, Date: date}
	doc := deco.Document(story)
	if opts.Page != nil {
		doc.Page = *opts.Page
	}
	return pdftour.RenderFile(ctx, env.Renderer, doc, out)
}

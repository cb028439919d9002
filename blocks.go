package pdftour

// BlockKind identifies the variant of a Block.
type BlockKind int

const (
	KindHeading BlockKind = iota + 1
	KindParagraph
	KindSpacer
	KindImage
	KindTable
	KindPreformatted
	KindEmbeddedPage
	KindPageBreak
)

var blockKindNames = map[BlockKind]string{
	KindHeading:      "heading",
	KindParagraph:    "paragraph",
	KindSpacer:       "spacer",
	KindImage:        "image",
	KindTable:        "table",
	KindPreformatted: "preformatted",
	KindEmbeddedPage: "embedded page",
	KindPageBreak:    "page break",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Block is one unit of flowing content. The set of implementations is
// closed: Heading, Paragraph, Spacer, Image, Table, Preformatted,
// EmbeddedPage and PageBreak.
type Block interface {
	Kind() BlockKind
	block()
}

// Heading is a single line of emphasized text, usually a title.
// Text may use inline markup (see Paragraph).
type Heading struct {
	Text  string
	Style Style
}

// Paragraph is flowing text. Inline markup: *italic*, **bold**, `code`,
// <b>…</b> and <i>…</i>.
type Paragraph struct {
	Text  string
	Style Style
}

// Spacer is blank space, in points.
type Spacer struct {
	Width  float64
	Height float64
}

// Image places a raster image centred in the frame. A zero Width or
// Height is derived from the image's aspect ratio; both zero means natural
// size at 72 dpi.
type Image struct {
	Path   string
	Width  float64
	Height float64
}

// Preformatted is verbatim text drawn line by line. With a Language set,
// tokens are coloured.
type Preformatted struct {
	Text     string
	Language string
	Style    Style
}

// EmbeddedPage draws a page of an existing PDF as a framed thumbnail with a
// drop shadow.
type EmbeddedPage struct {
	Source      PageSource
	Scale       float64 // 0 means DefaultEmbedScale
	SpaceBefore float64
	SpaceAfter  float64
}

// PageBreak ends the current page.
type PageBreak struct{}

func (Heading) Kind() BlockKind      { return KindHeading }
func (Paragraph) Kind() BlockKind    { return KindParagraph }
func (Spacer) Kind() BlockKind       { return KindSpacer }
func (Image) Kind() BlockKind        { return KindImage }
func (Table) Kind() BlockKind        { return KindTable }
func (Preformatted) Kind() BlockKind { return KindPreformatted }
func (EmbeddedPage) Kind() BlockKind { return KindEmbeddedPage }
func (PageBreak) Kind() BlockKind    { return KindPageBreak }

func (Heading) block()      {}
func (Paragraph) block()    {}
func (Spacer) block()       {}
func (Image) block()        {}
func (Table) block()        {}
func (Preformatted) block() {}
func (EmbeddedPage) block() {}
func (PageBreak) block()    {}

// Story is an append-only sequence of blocks.
type Story struct {
	blocks []Block
}

// NewStory creates a story holding blocks.
func NewStory(blocks ...Block) *Story {
	s := &Story{}
	s.Append(blocks...)
	return s
}

// Append adds blocks to the end of the story. Nil blocks are ignored.
func (s *Story) Append(blocks ...Block) {
	for _, b := range blocks {
		if b != nil {
			s.blocks = append(s.blocks, b)
		}
	}
}

// Len returns the number of blocks.
func (s *Story) Len() int {
	return len(s.blocks)
}

// Blocks returns a copy of the block sequence.
func (s *Story) Blocks() []Block {
	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Package fragment turns a single HTML fragment file into the source model
// of one slide.
package fragment

// Type definitions for parsed fragment structures.

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockBullet    BlockKind = "bullet"
	BlockCode      BlockKind = "code"
	BlockImage     BlockKind = "image"
)

// Run is a piece of text with uniform formatting.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
	Color     string // RRGGBB, empty when not set
	SizePt    float64
}

// ImageRef points to media file referenced by the fragment. Href is resolved
// against the fragment location by the caller.
type ImageRef struct {
	Href string
	Alt  string
}

// Block is one content unit of a slide body.
type Block struct {
	Kind  BlockKind
	Level int    // bullet nesting depth, zero based
	Align string // OOXML algn value (l, ctr, r), empty when not set
	Runs  []Run
	Image *ImageRef
}

// Slide is the parsed source of exactly one output slide.
type Slide struct {
	Source string
	Title  string
	Blocks []Block
	Notes  []string
}

// Images returns references to all media used by the slide in document order.
func (s *Slide) Images() []ImageRef {
	var refs []ImageRef
	for _, b := range s.Blocks {
		if b.Kind == BlockImage && b.Image != nil {
			refs = append(refs, *b.Image)
		}
	}
	return refs
}

// Text returns plain text of all runs in a block.
func (b *Block) Text() string {
	var out string
	for _, r := range b.Runs {
		out += r.Text
	}
	return out
}

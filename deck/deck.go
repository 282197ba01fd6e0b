// Package deck holds the in-memory presentation being assembled.
package deck

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deckc/common"
	"deckc/fragment"
	"deckc/misc"
	"deckc/state"
	"deckc/utils/images"
)

// Meta is deck level metadata.
type Meta struct {
	Title  string
	Author string
	Layout common.SlideLayout
	RefID  string
}

// Image is prepared media packaged with the deck.
type Image struct {
	Filename    string // name inside the package media directory
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Deck is the ordered sequence of slides plus metadata. It is created once
// per run, grows only by appending and is discarded when the run ends. Only
// the assembling goroutine ever touches it.
type Deck struct {
	Meta    Meta
	Slides  []*fragment.Slide
	WorkDir string

	images     map[string]*Image
	imageOrder []string
}

// New creates an empty deck. Invalid or missing reference ID is replaced
// with a generated one.
func New(ctx context.Context, meta Meta, log *zap.Logger) (*Deck, error) {
	env := state.EnvFromContext(ctx)

	if _, err := uuid.Parse(meta.RefID); err != nil {
		refID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("unable to generate deck UUID: %w", err)
		}
		if len(meta.RefID) > 0 {
			log.Warn("Deck has invalid reference ID, correcting", zap.String("old_id", meta.RefID), zap.Stringer("new_id", refID))
		}
		meta.RefID = refID.String()
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), meta.RefID), tmpDir)

	return &Deck{
		Meta:    meta,
		WorkDir: tmpDir,
		images:  make(map[string]*Image),
	}, nil
}

// AppendSlide transfers slide ownership to the deck. Slides always keep
// fragment order, there is no sorting or deduplication anywhere.
func (d *Deck) AppendSlide(s *fragment.Slide) {
	d.Slides = append(d.Slides, s)
}

// AddImage registers prepared media under the fragment supplied href and
// returns package file name. Repeated hrefs reuse already prepared media.
func (d *Deck) AddImage(href string, img *images.Image) string {
	if existing, ok := d.images[href]; ok {
		return existing.Filename
	}
	packaged := &Image{
		Filename:    fmt.Sprintf("image%d.%s", len(d.images)+1, img.Ext),
		ContentType: img.ContentType,
		Data:        img.Data,
		Width:       img.Width,
		Height:      img.Height,
	}
	d.images[href] = packaged
	d.imageOrder = append(d.imageOrder, href)
	return packaged.Filename
}

// Image returns previously registered media for the href.
func (d *Deck) Image(href string) (*Image, bool) {
	img, ok := d.images[href]
	return img, ok
}

// ImagesInOrder returns all packaged media in registration order.
func (d *Deck) ImagesInOrder() []*Image {
	out := make([]*Image, 0, len(d.imageOrder))
	for _, href := range d.imageOrder {
		out = append(out, d.images[href])
	}
	return out
}

// Cleanup removes deck working directory. Keep it around while reporting is
// active - report is finalized after the run and picks content up from there.
func (d *Deck) Cleanup(ctx context.Context) {
	if state.EnvFromContext(ctx).Rpt != nil {
		return
	}
	_ = os.RemoveAll(d.WorkDir)
}

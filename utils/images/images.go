// Package images prepares fragment media for packaging into a deck.
package images

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"go.uber.org/zap"

	// formats PowerPoint cannot be trusted with are re-encoded, but we still
	// want to decode them
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"deckc/common"
)

// Image is decoded slide media ready for packaging.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Options control media preparation.
type Options struct {
	// bounds in pixels media must fit into, 0 disables fitting
	MaxWidth  int
	MaxHeight int
	// additional scaling applied after fitting, 0 and 1 disable it
	ScaleFactor float64
	JPEGQuality int
	Resize      common.ImageResizeMode
}

// Prepare detects media type, rasterizes SVG, scales the image into requested
// bounds and re-encodes it into a format OOXML consumers understand.
func Prepare(data []byte, opts Options, log *zap.Logger) (*Image, error) {

	if isSVG(data) {
		rasterized, err := rasterizeSVG(data, opts.MaxWidth, opts.MaxHeight)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize SVG: %w", err)
		}
		data = rasterized
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("unable to detect media type: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image (%s): %w", kind.MIME.Value, err)
	}

	resized, changed := resize(img, opts)
	if changed {
		log.Debug("Scaled image",
			zap.String("from", img.Bounds().Size().String()), zap.String("to", resized.Bounds().Size().String()))
	}

	// jpeg sources stay jpeg, everything else is packaged as png - gif
	// animation is not worth preserving on a slide and webp/tiff are not
	// universally supported by pptx consumers
	switch {
	case !changed && kind == matchers.TypePng:
		return &Image{Data: data, ContentType: "image/png", Ext: "png", Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
	case !changed && kind == matchers.TypeJpeg:
		return &Image{Data: data, ContentType: "image/jpeg", Ext: "jpeg", Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
	}

	buf := new(bytes.Buffer)
	if format == "jpeg" {
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = 75
		}
		if err := imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("unable to encode jpeg: %w", err)
		}
		return &Image{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: "jpeg", Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()}, nil
	}
	if err := imaging.Encode(buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("unable to encode png: %w", err)
	}
	return &Image{Data: buf.Bytes(), ContentType: "image/png", Ext: "png", Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()}, nil
}

func resize(img image.Image, opts Options) (image.Image, bool) {

	res, changed := img, false

	w, h := res.Bounds().Dx(), res.Bounds().Dy()
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 && (w > opts.MaxWidth || h > opts.MaxHeight) {
		switch opts.Resize {
		case common.ImageResizeModeStretch:
			res = imaging.Resize(res, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
		case common.ImageResizeModeKeepAR:
			res = imaging.Fit(res, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
		case common.ImageResizeModeNone:
			// leave as is, placement will clip
		}
		changed = res != img
	}

	if opts.ScaleFactor > 0 && opts.ScaleFactor != 1.0 {
		res = imaging.Resize(res, int(float64(res.Bounds().Dx())*opts.ScaleFactor), 0, imaging.Linear)
		changed = true
	}
	return res, changed
}

package images

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const defaultSVGSize = 1024 // used when SVG viewBox carries no usable size

// maxRasterDim caps raster dimensions, the RGBA buffer is allocated up front
// and viewBox values come from untrusted content.
const maxRasterDim = 8192

var svgMarkRe = regexp.MustCompile(`(?s)<\s*svg[\s>]`)

// isSVG sniffs for an svg root element, filetype matchers cannot detect text
// based formats.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return svgMarkRe.Match(head)
}

// rasterizeSVG renders SVG into PNG fitting into targetW x targetH box
// keeping aspect ratio. Zero box dimensions fall back to the viewBox size.
func rasterizeSVG(data []byte, targetW, targetH int) ([]byte, error) {

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = defaultSVGSize, defaultSVGSize
		icon.SetTarget(0, 0, w, h)
	}

	scale := 1.0
	if targetW > 0 && targetH > 0 {
		scale = math.Min(float64(targetW)/w, float64(targetH)/h)
	}
	outW := int(math.Ceil(w * scale))
	outH := int(math.Ceil(h * scale))
	if outW > maxRasterDim || outH > maxRasterDim {
		clamp := math.Min(float64(maxRasterDim)/float64(outW), float64(maxRasterDim)/float64(outH))
		outW = int(float64(outW) * clamp)
		outH = int(float64(outH) * clamp)
	}
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("unable to determine SVG raster size (%gx%g)", w, h)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, outW, outH))
	scanner := rasterx.NewScannerGV(outW, outH, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(outW, outH, scanner)

	icon.SetTarget(0, 0, float64(outW), float64(outH))
	icon.Draw(raster, 1.0)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, rgba, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"go.uber.org/zap/zaptest"

	"deckc/common"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare_PNGPassthrough(t *testing.T) {
	data := testPNG(t, 100, 50)

	img, err := Prepare(data, Options{MaxWidth: 1280, MaxHeight: 720, Resize: common.ImageResizeModeKeepAR}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.ContentType != "image/png" || img.Ext != "png" {
		t.Errorf("type = %s/%s, want image/png", img.ContentType, img.Ext)
	}
	if img.Width != 100 || img.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", img.Width, img.Height)
	}
	if !bytes.Equal(img.Data, data) {
		t.Error("unchanged png should pass through without re-encoding")
	}
}

func TestPrepare_FitsOversized(t *testing.T) {
	data := testPNG(t, 2000, 1000)

	img, err := Prepare(data, Options{MaxWidth: 1280, MaxHeight: 720, Resize: common.ImageResizeModeKeepAR}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.Width > 1280 || img.Height > 720 {
		t.Errorf("size = %dx%d, must fit into 1280x720", img.Width, img.Height)
	}
	// aspect ratio 2:1 must survive keepAR
	if img.Width != 2*img.Height {
		t.Errorf("aspect ratio lost: %dx%d", img.Width, img.Height)
	}
}

func TestPrepare_JPEGStaysJPEG(t *testing.T) {
	data := testJPEG(t, 2000, 1000)

	img, err := Prepare(data, Options{MaxWidth: 1280, MaxHeight: 720, JPEGQuality: 80, Resize: common.ImageResizeModeKeepAR}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %s, want image/jpeg", img.ContentType)
	}
	if img.Width > 1280 || img.Height > 720 {
		t.Errorf("size = %dx%d, must fit into 1280x720", img.Width, img.Height)
	}
}

func TestPrepare_ResizeModeNone(t *testing.T) {
	data := testPNG(t, 2000, 1000)

	img, err := Prepare(data, Options{MaxWidth: 1280, MaxHeight: 720, Resize: common.ImageResizeModeNone}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.Width != 2000 || img.Height != 1000 {
		t.Errorf("size = %dx%d, resize mode none must keep original", img.Width, img.Height)
	}
}

func TestPrepare_ScaleFactor(t *testing.T) {
	data := testPNG(t, 100, 50)

	img, err := Prepare(data, Options{ScaleFactor: 2.0}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.Width != 200 || img.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", img.Width, img.Height)
	}
}

func TestPrepare_SVG(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="10" y="10" width="80" height="80" fill="red"/>
</svg>`)

	img, err := Prepare(svg, Options{MaxWidth: 200, MaxHeight: 200, Resize: common.ImageResizeModeKeepAR}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if img.ContentType != "image/png" {
		t.Errorf("ContentType = %s, rasterized svg must come out as png", img.ContentType)
	}
	if img.Width == 0 || img.Height == 0 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}
}

func TestPrepare_Garbage(t *testing.T) {
	if _, err := Prepare([]byte("definitely not an image"), Options{}, zaptest.NewLogger(t)); err == nil {
		t.Error("Prepare() expected error for undecodable data")
	}
}

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"plain svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), true},
		{"with xml prolog", []byte("<?xml version=\"1.0\"?>\n<svg viewBox=\"0 0 1 1\">"), true},
		{"png magic", []byte("\x89PNG\r\n\x1a\n"), false},
		{"mentions svg late", append(bytes.Repeat([]byte("x"), 600), []byte("<svg>")...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSVG(tt.data); got != tt.want {
				t.Errorf("isSVG() = %v, want %v", got, tt.want)
			}
		})
	}
}

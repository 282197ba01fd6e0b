// Enums here are shared between configuration and deck model packages and
// cannot live in config without creating an import loop.
package common

// Specification of deck slide geometry.
// ENUM(16x9, 4x3)
type SlideLayout int

// EMU is a quantity in English Metric Units (914400 per inch) - native
// coordinate space of OOXML drawings.
type EMU int64

// EMUPerPixel assumes the conventional 96 DPI raster mapping.
const EMUPerPixel EMU = 9525

// SlideSize returns slide dimensions in EMU for the layout.
func (l SlideLayout) SlideSize() (cx, cy EMU) {
	switch l {
	case SlideLayout4x3:
		return 9144000, 6858000
	case SlideLayout16x9:
		return 12192000, 6858000
	default:
		// this should never happen
		panic("unsupported slide layout requested")
	}
}

// Name returns layout specification the way presentation tools report it.
func (l SlideLayout) Name() string {
	return "LAYOUT_" + l.String()
}

// Specification of image resizing mode.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int

package sprite

import (
	"image"
	"image/draw"
)

// Render composes the sprite canvas. Every member is first rendered into
// its own strip spanning the full cross-axis extent (alignment and margins
// applied there), then the strip is copied to the member's packing-axis
// offset. Strips never overlap along the packing axis, so each member's
// pixels survive composition exactly.
func (s *SpriteImage) Render() *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))

	layout := s.Layout()
	for _, p := range s.Placements {
		var strip *image.NRGBA
		var at image.Point
		if layout == LayoutVertical {
			strip = p.renderVertical(s.Width)
			at = image.Pt(0, p.Offset)
		} else {
			strip = p.renderHorizontal(s.Height)
			at = image.Pt(p.Offset, 0)
		}
		r := image.Rectangle{Min: at, Max: at.Add(strip.Bounds().Size())}
		draw.Draw(canvas, r, strip, image.Point{}, draw.Src)
	}
	return canvas
}

// renderVertical renders one member of a vertically stacked sprite into a
// strip of the full sprite width.
func (p Placement) renderVertical(width int) *image.NRGBA {
	d := p.Occurrence.Directive
	w := p.Image.Bounds().Dx()

	strip := image.NewNRGBA(image.Rect(0, 0, width, p.Occurrence.RequiredHeight(p.Image, LayoutVertical)))
	switch d.Alignment {
	case AlignRight:
		drawAt(strip, p.Image, width-d.MarginRight-w, d.MarginTop)
	case AlignCenter:
		drawAt(strip, p.Image, (width-w)/2, d.MarginTop)
	case AlignRepeat:
		// tile across the full width, margins along that axis are ignored
		for x := 0; x < width; x += w {
			drawAt(strip, p.Image, x, d.MarginTop)
		}
	default:
		drawAt(strip, p.Image, d.MarginLeft, d.MarginTop)
	}
	return strip
}

// renderHorizontal renders one member of a horizontally lined sprite into a
// strip of the full sprite height.
func (p Placement) renderHorizontal(height int) *image.NRGBA {
	d := p.Occurrence.Directive
	h := p.Image.Bounds().Dy()

	strip := image.NewNRGBA(image.Rect(0, 0, p.Occurrence.RequiredWidth(p.Image, LayoutHorizontal), height))
	switch d.Alignment {
	case AlignBottom:
		drawAt(strip, p.Image, d.MarginLeft, height-d.MarginBottom-h)
	case AlignCenter:
		drawAt(strip, p.Image, d.MarginLeft, (height-h)/2)
	case AlignRepeat:
		// tile across the full height, margins along that axis are ignored
		for y := 0; y < height; y += h {
			drawAt(strip, p.Image, d.MarginLeft, y)
		}
	default:
		drawAt(strip, p.Image, d.MarginLeft, d.MarginTop)
	}
	return strip
}

func drawAt(dst *image.NRGBA, src image.Image, x, y int) {
	at := image.Pt(x, y)
	r := image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
}

package sprite

import "fmt"

// ReferenceReplacement carries everything needed to rewrite one original
// background-image reference: the background-position pair (exactly one of
// which is a pixel offset, the packing axis), the member's rendered
// dimensions and whether the owning sprite requests explicit width/height.
type ReferenceReplacement struct {
	Occurrence         *ReferenceOccurrence
	HorizontalPosition string
	VerticalPosition   string
	Offset             int
	ImageWidth         int
	ImageHeight        int
	IncludeDimensions  bool
}

// buildReplacement converts a placement into the substitution values for
// its stylesheet reference. The packing axis becomes a negative pixel
// offset, the cross axis mirrors the member's alignment as a named anchor
// (repeat maps to the axis default).
func (p Placement) buildReplacement(layout Layout, includeDimensions bool) ReferenceReplacement {
	b := p.Image.Bounds()
	r := ReferenceReplacement{
		Occurrence:        p.Occurrence,
		Offset:            p.Offset,
		ImageWidth:        b.Dx(),
		ImageHeight:       b.Dy(),
		IncludeDimensions: includeDimensions,
	}

	if layout == LayoutVertical {
		switch p.Occurrence.Directive.Alignment {
		case AlignRight:
			r.HorizontalPosition = "right"
		case AlignCenter:
			r.HorizontalPosition = "center"
		default:
			r.HorizontalPosition = "left"
		}
		r.VerticalPosition = fmt.Sprintf("-%dpx", p.Offset)
		return r
	}

	switch p.Occurrence.Directive.Alignment {
	case AlignBottom:
		r.VerticalPosition = "bottom"
	case AlignCenter:
		r.VerticalPosition = "center"
	default:
		r.VerticalPosition = "top"
	}
	r.HorizontalPosition = fmt.Sprintf("-%dpx", p.Offset)
	return r
}

// Replacements produces the substitution record for every placed member in
// packing order.
func (s *SpriteImage) Replacements() []ReferenceReplacement {
	layout := s.Layout()
	include := s.Occurrence.Directive.IncludeDimensions

	out := make([]ReferenceReplacement, 0, len(s.Placements))
	for _, p := range s.Placements {
		out = append(out, p.buildReplacement(layout, include))
	}
	return out
}

package sprite

import "image"

// ImageOccurrence is one observed `sprite:` directive at a specific
// stylesheet location.
type ImageOccurrence struct {
	Directive *ImageDirective
	CSSFile   string
	Line      int
}

// ReferenceOccurrence is one observed request to place an image into a
// sprite. Immutable once built.
type ReferenceOccurrence struct {
	Directive *ReferenceDirective

	// ImagePath is the url of the member image exactly as written in the
	// stylesheet; resolution against the stylesheet location happens later.
	ImagePath string

	CSSFile string
	// Line is the effective 1-based line of the background-image
	// declaration. For dual-line occurrences this is the directive's line
	// minus one.
	Line int

	// Important is set when the original declaration carried !important.
	Important bool

	// DualLine marks occurrences whose declaration sat on the physical line
	// before the directive comment.
	DualLine bool
}

// RequiredWidth is the horizontal footprint of the member when rendered
// into a sprite with the given layout. Repeated members in vertical sprites
// tile across the full width, so their own horizontal margins are ignored.
func (o *ReferenceOccurrence) RequiredWidth(img image.Image, layout Layout) int {
	d := o.Directive
	if d.Alignment == AlignRepeat && layout == LayoutVertical {
		return img.Bounds().Dx()
	}
	return img.Bounds().Dx() + d.MarginLeft + d.MarginRight
}

// RequiredHeight is the vertical footprint of the member when rendered
// into a sprite with the given layout. Repeated members in horizontal
// sprites tile across the full height, so their own vertical margins are
// ignored.
func (o *ReferenceOccurrence) RequiredHeight(img image.Image, layout Layout) int {
	d := o.Directive
	if d.Alignment == AlignRepeat && layout == LayoutHorizontal {
		return img.Bounds().Dy()
	}
	return img.Bounds().Dy() + d.MarginTop + d.MarginBottom
}

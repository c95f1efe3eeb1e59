// Package sprite implements the sprite generation pipeline: directive
// parsing, occurrence collection, aggregation, packing layout, composite
// rendering and stylesheet replacement computation.
package sprite

import (
	"fmt"
	"image/color"
	"path"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"spritec/css"
	"spritec/message"
)

// Layout is the packing orientation of a sprite image.
type Layout int

const (
	LayoutVertical Layout = iota
	LayoutHorizontal
)

func ParseLayout(s string) (Layout, bool) {
	switch strings.ToLower(s) {
	case "vertical":
		return LayoutVertical, true
	case "horizontal":
		return LayoutHorizontal, true
	}
	return LayoutVertical, false
}

func (l Layout) String() string {
	if l == LayoutHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Format is the output image format of a sprite.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
)

func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, true
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "gif":
		return FormatGIF, true
	}
	return FormatPNG, false
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatGIF:
		return "gif"
	default:
		return "png"
	}
}

func (f Format) Ext() string {
	return "." + f.String()
}

// Alignment positions a member image along the cross axis of its sprite.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenter
	AlignRepeat
)

func ParseAlignment(s string) (Alignment, bool) {
	switch strings.ToLower(s) {
	case "left":
		return AlignLeft, true
	case "right":
		return AlignRight, true
	case "top":
		return AlignTop, true
	case "bottom":
		return AlignBottom, true
	case "center":
		return AlignCenter, true
	case "repeat":
		return AlignRepeat, true
	}
	return AlignLeft, false
}

func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	case AlignCenter:
		return "center"
	case AlignRepeat:
		return "repeat"
	default:
		return "left"
	}
}

// defaultAlignment is the cross-axis anchor used when a reference does not
// request one: flush with the leading edge of the packing axis.
func defaultAlignment(l Layout) Alignment {
	if l == LayoutHorizontal {
		return AlignTop
	}
	return AlignLeft
}

// ImageDirective declares a sprite image: its identifier, output location
// and format, packing orientation and presentation options. Immutable once
// parsed.
type ImageDirective struct {
	SpriteID          string
	ImagePath         string // stylesheet-relative url of the generated sprite, may be empty
	Layout            Layout
	Format            Format
	Matte             color.NRGBA
	HasMatte          bool
	IncludeDimensions bool
}

// ResolvedImagePath returns the stylesheet-relative url the sprite will be
// written to. When the directive carries no sprite-image location the name
// is derived from the slugified sprite id under spriteDir.
func (d *ImageDirective) ResolvedImagePath(spriteDir string) string {
	if len(d.ImagePath) > 0 {
		return d.ImagePath
	}
	return path.Join(spriteDir, slug.Make(d.SpriteID)+d.Format.Ext())
}

// ParseImageDirective parses the body of a `sprite:` directive comment.
// Returns nil after emitting a warning when the sprite id is missing or any
// value is outside its domain.
func ParseImageDirective(text string, msg *message.Log) *ImageDirective {
	d := &ImageDirective{}

	var explicitFormat bool
	for _, decl := range css.ExtractDeclarations(text) {
		switch decl.Property {
		case "sprite":
			d.SpriteID = decl.Value
		case "sprite-image":
			u, ok := css.UnpackURL(decl.Value)
			if !ok {
				msg.Warn("cannot parse sprite image url: %s", decl.Value)
				return nil
			}
			d.ImagePath = u
		case "sprite-layout":
			l, ok := ParseLayout(decl.Value)
			if !ok {
				msg.Warn("unsupported sprite layout: %s", decl.Value)
				return nil
			}
			d.Layout = l
		case "sprite-image-format":
			f, ok := ParseFormat(decl.Value)
			if !ok {
				msg.Warn("unsupported sprite image format: %s", decl.Value)
				return nil
			}
			d.Format = f
			explicitFormat = true
		case "sprite-matte-color":
			c, ok := parseHexColor(decl.Value)
			if !ok {
				msg.Warn("cannot parse sprite matte color: %s", decl.Value)
				return nil
			}
			d.Matte = c
			d.HasMatte = true
		case "sprite-include-dimensions":
			d.IncludeDimensions = strings.EqualFold(decl.Value, "true")
		default:
			msg.Warn("unsupported sprite directive property: %s", decl.Property)
		}
	}

	if len(d.SpriteID) == 0 {
		msg.Warn("sprite id not found in directive: %s", text)
		return nil
	}
	if !explicitFormat && len(d.ImagePath) > 0 {
		// infer format from the declared output location, fall back to png
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(d.ImagePath)), ".")
		if f, ok := ParseFormat(ext); ok {
			d.Format = f
		} else if len(ext) > 0 {
			msg.Warn("cannot infer sprite image format from '%s', using png", d.ImagePath)
		}
	}
	return d
}

// ReferenceDirective declares participation of one image in a sprite along
// with its cross-axis alignment and margins. Immutable once parsed.
type ReferenceDirective struct {
	SpriteRef    string
	Alignment    Alignment
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
}

// ParseReferenceDirective parses the body of a `sprite-ref:` directive
// comment. The referenced sprite id must already be known. Returns nil
// after emitting a warning when the reference is missing or unknown, an
// alignment keyword is outside its domain or a margin is negative.
func ParseReferenceDirective(text string, images map[string]*ImageOccurrence, msg *message.Log) *ReferenceDirective {
	d := &ReferenceDirective{Alignment: Alignment(-1)}

	for _, decl := range css.ExtractDeclarations(text) {
		switch decl.Property {
		case "sprite-ref":
			d.SpriteRef = decl.Value
		case "sprite-alignment":
			a, ok := ParseAlignment(decl.Value)
			if !ok {
				msg.Warn("unsupported sprite alignment: %s", decl.Value)
				return nil
			}
			d.Alignment = a
		case "sprite-margin-top":
			if !parseMargin(decl.Value, &d.MarginTop, msg) {
				return nil
			}
		case "sprite-margin-right":
			if !parseMargin(decl.Value, &d.MarginRight, msg) {
				return nil
			}
		case "sprite-margin-bottom":
			if !parseMargin(decl.Value, &d.MarginBottom, msg) {
				return nil
			}
		case "sprite-margin-left":
			if !parseMargin(decl.Value, &d.MarginLeft, msg) {
				return nil
			}
		default:
			msg.Warn("unsupported sprite reference property: %s", decl.Property)
		}
	}

	if len(d.SpriteRef) == 0 {
		msg.Warn("sprite reference not found in directive: %s", text)
		return nil
	}
	img, known := images[d.SpriteRef]
	if !known {
		msg.Warn("sprite reference to unknown sprite id: %s", d.SpriteRef)
		return nil
	}

	layout := img.Directive.Layout
	if d.Alignment < 0 {
		d.Alignment = defaultAlignment(layout)
	} else if !alignmentFitsLayout(d.Alignment, layout) {
		msg.Warn("alignment '%s' does not fit %s sprite '%s', using '%s'",
			d.Alignment, layout, d.SpriteRef, defaultAlignment(layout))
		d.Alignment = defaultAlignment(layout)
	}
	return d
}

// alignmentFitsLayout reports whether the cross-axis anchor is meaningful
// for the given packing orientation.
func alignmentFitsLayout(a Alignment, l Layout) bool {
	switch a {
	case AlignCenter, AlignRepeat:
		return true
	case AlignLeft, AlignRight:
		return l == LayoutVertical
	case AlignTop, AlignBottom:
		return l == LayoutHorizontal
	}
	return false
}

func parseMargin(value string, out *int, msg *message.Log) bool {
	v := strings.TrimSuffix(strings.TrimSpace(value), "px")
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		msg.Warn("cannot parse margin value: %s", value)
		return false
	}
	if n < 0 {
		msg.Warn("negative margin value: %s", value)
		return false
	}
	*out = n
	return true
}

func parseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

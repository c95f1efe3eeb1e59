package sprite

import (
	"image/color"
	"testing"

	"spritec/message"
)

func TestParseImageDirective(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *ImageDirective
	}{
		{
			name: "minimal",
			text: "sprite: mysprite",
			want: &ImageDirective{SpriteID: "mysprite"},
		},
		{
			name: "with image location",
			text: "sprite: nav; sprite-image: url('../img/nav.png')",
			want: &ImageDirective{SpriteID: "nav", ImagePath: "../img/nav.png"},
		},
		{
			name: "horizontal jpg",
			text: "sprite: icons; sprite-layout: horizontal; sprite-image-format: jpg",
			want: &ImageDirective{SpriteID: "icons", Layout: LayoutHorizontal, Format: FormatJPEG},
		},
		{
			name: "format inferred from image location",
			text: "sprite: icons; sprite-image: url(icons.gif)",
			want: &ImageDirective{SpriteID: "icons", ImagePath: "icons.gif", Format: FormatGIF},
		},
		{
			name: "explicit format wins over extension",
			text: "sprite: icons; sprite-image: url(icons.gif); sprite-image-format: png",
			want: &ImageDirective{SpriteID: "icons", ImagePath: "icons.gif", Format: FormatPNG},
		},
		{
			name: "matte color",
			text: "sprite: m; sprite-image-format: jpg; sprite-matte-color: #ff00cc",
			want: &ImageDirective{
				SpriteID: "m", Format: FormatJPEG, HasMatte: true,
				Matte: color.NRGBA{R: 0xff, G: 0x00, B: 0xcc, A: 0xff},
			},
		},
		{
			name: "include dimensions",
			text: "sprite: m; sprite-include-dimensions: true",
			want: &ImageDirective{SpriteID: "m", IncludeDimensions: true},
		},
		{
			name: "missing sprite id",
			text: "sprite-image: url(whatever.png)",
			want: nil,
		},
		{
			name: "bad layout",
			text: "sprite: m; sprite-layout: diagonal",
			want: nil,
		},
		{
			name: "bad format",
			text: "sprite: m; sprite-image-format: webp",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewLog(nil)
			got := ParseImageDirective(tt.text, msg)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseImageDirective(%q) = %+v, want nil", tt.text, got)
				}
				if msg.WarningCount() == 0 {
					t.Error("rejected directive should emit a warning")
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseImageDirective(%q) = nil, warnings: %v", tt.text, msg.Warnings())
			}
			if *got != *tt.want {
				t.Errorf("ParseImageDirective(%q) = %+v, want %+v", tt.text, *got, *tt.want)
			}
		})
	}
}

func knownImages(layout Layout) map[string]*ImageOccurrence {
	return map[string]*ImageOccurrence{
		"mysprite": {Directive: &ImageDirective{SpriteID: "mysprite", Layout: layout}},
	}
}

func TestParseReferenceDirective(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		layout Layout
		want   *ReferenceDirective
	}{
		{
			name:   "minimal vertical defaults to left",
			text:   "sprite-ref: mysprite",
			layout: LayoutVertical,
			want:   &ReferenceDirective{SpriteRef: "mysprite", Alignment: AlignLeft},
		},
		{
			name:   "minimal horizontal defaults to top",
			text:   "sprite-ref: mysprite",
			layout: LayoutHorizontal,
			want:   &ReferenceDirective{SpriteRef: "mysprite", Alignment: AlignTop},
		},
		{
			name:   "alignment and margins",
			text:   "sprite-ref: mysprite; sprite-alignment: right; sprite-margin-top: 5px; sprite-margin-left: 3",
			layout: LayoutVertical,
			want: &ReferenceDirective{
				SpriteRef: "mysprite", Alignment: AlignRight,
				MarginTop: 5, MarginLeft: 3,
			},
		},
		{
			name:   "repeat fits any layout",
			text:   "sprite-ref: mysprite; sprite-alignment: repeat",
			layout: LayoutHorizontal,
			want:   &ReferenceDirective{SpriteRef: "mysprite", Alignment: AlignRepeat},
		},
		{
			name:   "alignment not fitting layout falls back to default",
			text:   "sprite-ref: mysprite; sprite-alignment: top",
			layout: LayoutVertical,
			want:   &ReferenceDirective{SpriteRef: "mysprite", Alignment: AlignLeft},
		},
		{
			name:   "unknown sprite id",
			text:   "sprite-ref: nosuchsprite",
			layout: LayoutVertical,
			want:   nil,
		},
		{
			name:   "missing sprite ref",
			text:   "sprite-alignment: left",
			layout: LayoutVertical,
			want:   nil,
		},
		{
			name:   "negative margin",
			text:   "sprite-ref: mysprite; sprite-margin-top: -4px",
			layout: LayoutVertical,
			want:   nil,
		},
		{
			name:   "unparsable margin",
			text:   "sprite-ref: mysprite; sprite-margin-left: wide",
			layout: LayoutVertical,
			want:   nil,
		},
		{
			name:   "bad alignment keyword",
			text:   "sprite-ref: mysprite; sprite-alignment: sideways",
			layout: LayoutVertical,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewLog(nil)
			got := ParseReferenceDirective(tt.text, knownImages(tt.layout), msg)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseReferenceDirective(%q) = %+v, want nil", tt.text, got)
				}
				if msg.WarningCount() == 0 {
					t.Error("rejected directive should emit a warning")
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseReferenceDirective(%q) = nil, warnings: %v", tt.text, msg.Warnings())
			}
			if *got != *tt.want {
				t.Errorf("ParseReferenceDirective(%q) = %+v, want %+v", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestParseReferenceDirective_MismatchWarns(t *testing.T) {
	msg := message.NewLog(nil)
	got := ParseReferenceDirective("sprite-ref: mysprite; sprite-alignment: bottom", knownImages(LayoutVertical), msg)
	if got == nil {
		t.Fatal("mismatched alignment should not reject the directive")
	}
	if got.Alignment != AlignLeft {
		t.Errorf("Alignment = %v, want fallback %v", got.Alignment, AlignLeft)
	}
	if msg.WarningCount() != 1 {
		t.Errorf("WarningCount() = %d, want 1", msg.WarningCount())
	}
}

func TestResolvedImagePath(t *testing.T) {
	tests := []struct {
		name string
		d    ImageDirective
		want string
	}{
		{
			name: "explicit location kept",
			d:    ImageDirective{SpriteID: "nav", ImagePath: "../img/nav.png"},
			want: "../img/nav.png",
		},
		{
			name: "derived from id",
			d:    ImageDirective{SpriteID: "nav"},
			want: "sprites/nav.png",
		},
		{
			name: "derived name is slugified",
			d:    ImageDirective{SpriteID: "Main Menu", Format: FormatGIF},
			want: "sprites/main-menu.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.ResolvedImagePath("sprites"); got != tt.want {
				t.Errorf("ResolvedImagePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ffffff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{"#abc", color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, true},
		{"102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{"#12345", color.NRGBA{}, false},
		{"#gggggg", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		got, ok := parseHexColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseHexColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

package sprite

import (
	"os"
	"strings"
	"testing"

	"spritec/message"
	"spritec/resource"
)

func newTestRewriter(t *testing.T, suffix string) *Rewriter {
	t.Helper()
	res, err := resource.NewFileSystem("")
	if err != nil {
		t.Fatalf("NewFileSystem() error = %v", err)
	}
	return NewRewriter(message.NewLog(nil), res, suffix)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		suffix string
		in     string
		want   string
	}{
		{"", "styles.css", "styles-sprite.css"},
		{"-sprite", "dir/styles.css", "dir/styles-sprite.css"},
		{".out", "styles.css", "styles.out.css"},
	}

	for _, tt := range tests {
		r := newTestRewriter(t, tt.suffix)
		if got := r.OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) with suffix %q = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}

func TestRewriteFile_SingleLine(t *testing.T) {
	css := `.a { background-image: url('img/a.png'); /* sprite-ref: nav */ }
.untouched { color: red; }
`
	p := writeCSS(t, css)
	r := newTestRewriter(t, "")

	rewrites := map[int]LineRewrite{
		1: {
			Replacement: ReferenceReplacement{
				Occurrence:         &ReferenceOccurrence{Line: 1},
				HorizontalPosition: "left",
				VerticalPosition:   "-14px",
			},
			SpriteURL: "sprites/nav.png",
		},
	}

	out, err := r.RewriteFile(p, rewrites)
	if err != nil {
		t.Fatalf("RewriteFile() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read rewritten stylesheet: %v", err)
	}
	got := string(data)

	want := "background-image: url('sprites/nav.png'); background-position: left -14px;"
	if !strings.Contains(got, want) {
		t.Errorf("rewritten stylesheet missing %q:\n%s", want, got)
	}
	if strings.Contains(got, "sprite-ref") {
		t.Error("directive comment must be stripped from rewritten stylesheet")
	}
	if !strings.Contains(got, ".untouched { color: red; }") {
		t.Error("unrelated lines must be passed through unchanged")
	}
}

func TestRewriteFile_DualLine(t *testing.T) {
	css := `.a {
  background-image: url('img/a.png');
  /* sprite-ref: nav */
}
`
	p := writeCSS(t, css)
	r := newTestRewriter(t, "")

	rewrites := map[int]LineRewrite{
		2: {
			Replacement: ReferenceReplacement{
				Occurrence:         &ReferenceOccurrence{Line: 2, DualLine: true},
				HorizontalPosition: "left",
				VerticalPosition:   "-0px",
			},
			SpriteURL: "sprites/nav.png",
		},
	}

	out, err := r.RewriteFile(p, rewrites)
	if err != nil {
		t.Fatalf("RewriteFile() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read rewritten stylesheet: %v", err)
	}
	lines := strings.Split(string(data), "\n")

	if !strings.Contains(lines[1], "url('sprites/nav.png')") {
		t.Errorf("declaration line not rewritten: %q", lines[1])
	}
	if strings.Contains(lines[2], "sprite-ref") {
		t.Errorf("directive comment not stripped from following line: %q", lines[2])
	}
}

func TestRewriteFile_ImportantAndDimensions(t *testing.T) {
	css := `.a { background-image: url('a.png') !important; /* sprite-ref: nav */ }
`
	p := writeCSS(t, css)
	r := newTestRewriter(t, "")

	rewrites := map[int]LineRewrite{
		1: {
			Replacement: ReferenceReplacement{
				Occurrence:         &ReferenceOccurrence{Line: 1, Important: true},
				HorizontalPosition: "left",
				VerticalPosition:   "-5px",
				ImageWidth:         10,
				ImageHeight:        20,
				IncludeDimensions:  true,
			},
			SpriteURL: "nav.png",
		},
	}

	out, err := r.RewriteFile(p, rewrites)
	if err != nil {
		t.Fatalf("RewriteFile() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read rewritten stylesheet: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		"background-image: url('nav.png') !important;",
		"background-position: left -5px !important;",
		"width: 10px !important;",
		"height: 20px !important;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rewritten stylesheet missing %q:\n%s", want, got)
		}
	}
}

package sprite

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"spritec/message"
	"spritec/resource"
)

// backgroundImagePattern locates the original background-image declaration
// to substitute. Declarations never span lines here - the collector already
// required the declaration to sit on a single physical line.
var backgroundImagePattern = regexp.MustCompile(`(?i)background-image\s*:[^;{}]*;?`)

// LineRewrite is the substitution for one effective stylesheet line: the
// computed replacement values plus the sprite url relative to the rewritten
// stylesheet.
type LineRewrite struct {
	Replacement ReferenceReplacement
	SpriteURL   string
}

// Rewriter applies computed replacements to stylesheets, producing sibling
// files with the configured suffix. Original stylesheets are never
// modified.
type Rewriter struct {
	msg    *message.Log
	res    resource.Handler
	suffix string
}

func NewRewriter(msg *message.Log, res resource.Handler, suffix string) *Rewriter {
	if len(suffix) == 0 {
		suffix = "-sprite"
	}
	return &Rewriter{msg: msg, res: res, suffix: suffix}
}

// OutputPath returns the location the rewritten copy of cssFile goes to.
func (r *Rewriter) OutputPath(cssFile string) string {
	ext := filepath.Ext(cssFile)
	return strings.TrimSuffix(cssFile, ext) + r.suffix + ext
}

// RewriteFile writes the sprite-relative version of one stylesheet. Lines
// with computed rewrites get their background-image declaration replaced
// and the directive comment stripped; for dual-line occurrences the
// declaration line is rewritten and the comment disappears from the line
// after it. Returns the output path.
func (r *Rewriter) RewriteFile(cssFile string, rewrites map[int]LineRewrite) (string, error) {
	in, err := r.res.OpenText(cssFile)
	if err != nil {
		return "", fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	defer in.Close()

	// directive comments of dual-line occurrences live one line after the
	// effective line and only need stripping
	stripOnly := make(map[int]struct{})
	for line, rw := range rewrites {
		if rw.Replacement.Occurrence.DualLine {
			stripOnly[line+1] = struct{}{}
		}
	}

	outPath := r.OutputPath(cssFile)
	out, err := r.res.WriteText(outPath)
	if err != nil {
		return "", fmt.Errorf("unable to create stylesheet '%s': %w", outPath, err)
	}

	w := bufio.NewWriter(out)
	lineNumber := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lineNumber++

		if rw, ok := rewrites[lineNumber]; ok {
			if !rw.Replacement.Occurrence.DualLine {
				line = stripReferenceDirective(line)
			}
			line = backgroundImagePattern.ReplaceAllString(line, rw.declarations())
		} else if _, ok := stripOnly[lineNumber]; ok {
			line = stripReferenceDirective(line)
		}

		if _, err := w.WriteString(line); err != nil {
			out.Close()
			return "", fmt.Errorf("unable to write stylesheet '%s': %w", outPath, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			out.Close()
			return "", fmt.Errorf("unable to write stylesheet '%s': %w", outPath, err)
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return "", fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return "", fmt.Errorf("unable to write stylesheet '%s': %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("unable to write stylesheet '%s': %w", outPath, err)
	}
	return outPath, nil
}

// declarations renders the substitute declaration list for one rewrite.
func (rw LineRewrite) declarations() string {
	repl := rw.Replacement

	important := ""
	if repl.Occurrence.Important {
		important = " !important"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "background-image: url('%s')%s; background-position: %s %s%s;",
		rw.SpriteURL, important, repl.HorizontalPosition, repl.VerticalPosition, important)
	if repl.IncludeDimensions {
		fmt.Fprintf(&b, " width: %dpx%s; height: %dpx%s;",
			repl.ImageWidth, important, repl.ImageHeight, important)
	}
	return b.String()
}

// stripReferenceDirective removes the reference directive comment keeping
// the rest of the line intact.
func stripReferenceDirective(line string) string {
	return strings.TrimRight(referenceDirectivePattern.ReplaceAllString(line, ""), " \t")
}

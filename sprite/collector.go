package sprite

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"spritec/css"
	"spritec/message"
	"spritec/resource"
)

var (
	imageDirectivePattern     = regexp.MustCompile(`/\*+\s+(sprite:[^*]*)\*+/`)
	referenceDirectivePattern = regexp.MustCompile(`/\*+\s+(sprite-ref:[^*]*)\*+/`)
)

// ExtractImageDirectiveString returns the trimmed body of a `sprite:`
// directive comment on the line, or "" when the line carries none.
func ExtractImageDirectiveString(line string) string {
	if m := imageDirectivePattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractReferenceDirectiveString returns the trimmed body of a
// `sprite-ref:` directive comment on the line, or "" when the line carries
// none.
func ExtractReferenceDirectiveString(line string) string {
	if m := referenceDirectivePattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Collector scans stylesheets line by line and turns directive comments
// into occurrence records.
type Collector struct {
	msg *message.Log
	res resource.Handler
}

func NewCollector(msg *message.Log, res resource.Handler) *Collector {
	return &Collector{msg: msg, res: res}
}

// CollectImageOccurrences gathers `sprite:` directive occurrences from a
// single stylesheet. Unreadable stylesheets are an error; malformed
// directives warn and are skipped.
func (c *Collector) CollectImageOccurrences(cssFile string) ([]*ImageOccurrence, error) {
	r, err := c.res.OpenText(cssFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	defer r.Close()

	c.msg.SetCSSFile(cssFile)

	var occurrences []*ImageOccurrence

	lineNumber := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNumber++
		c.msg.SetLine(lineNumber)

		text := ExtractImageDirectiveString(scanner.Text())
		if len(text) == 0 {
			continue
		}
		directive := ParseImageDirective(text, c.msg)
		if directive == nil {
			continue
		}
		occurrences = append(occurrences, &ImageOccurrence{
			Directive: directive,
			CSSFile:   cssFile,
			Line:      lineNumber,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	return occurrences, nil
}

// CollectReferenceOccurrences gathers `sprite-ref:` directive occurrences
// from a single stylesheet. Each directive must sit next to exactly one
// background-image declaration: on the same line, or on the immediately
// preceding line (the dual-line case). Everything else warns and produces
// no occurrence.
func (c *Collector) CollectReferenceOccurrences(cssFile string, images map[string]*ImageOccurrence) ([]*ReferenceOccurrence, error) {
	r, err := c.res.OpenText(cssFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	defer r.Close()

	c.msg.SetCSSFile(cssFile)

	var (
		occurrences []*ReferenceOccurrence
		prevLine    *string
	)

	lineNumber := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lineNumber++
		c.msg.SetLine(lineNumber)

		text := ExtractReferenceDirectiveString(line)
		if len(text) == 0 {
			prevLine = &line
			continue
		}

		decl, dualLine := c.extractReferenceDeclaration(line, prevLine)
		prevLine = &line
		if decl == nil {
			continue
		}

		imageURL, ok := css.UnpackURL(decl.Value)
		if !ok {
			c.msg.Warn("cannot parse background image url: %s", decl.Value)
			continue
		}

		directive := ParseReferenceDirective(text, images, c.msg)
		if directive == nil {
			continue
		}

		effectiveLine := lineNumber
		if dualLine {
			effectiveLine--
		}
		occurrences = append(occurrences, &ReferenceOccurrence{
			Directive: directive,
			ImagePath: imageURL,
			CSSFile:   cssFile,
			Line:      effectiveLine,
			Important: decl.Important,
			DualLine:  dualLine,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read stylesheet '%s': %w", cssFile, err)
	}
	return occurrences, nil
}

// extractReferenceDeclaration locates the single background-image
// declaration adjacent to a reference directive: first on the directive's
// own line, then one line back. The second return value reports whether the
// declaration was recovered from the previous line.
func (c *Collector) extractReferenceDeclaration(line string, prevLine *string) (*css.Declaration, bool) {
	strip := func(s string) string {
		return strings.TrimSpace(referenceDirectivePattern.ReplaceAllString(s, ""))
	}

	dualLine := false
	decls := css.ExtractDeclarations(strip(line))
	if len(decls) == 0 {
		if prevLine == nil {
			c.msg.Warn("no background-image rule next to sprite reference directive: %s", line)
			return nil, false
		}
		decls = css.ExtractDeclarations(strip(*prevLine))
		if len(decls) == 0 {
			c.msg.Warn("no background-image rule next to sprite reference directive: %s", *prevLine)
			c.msg.Warn("no background-image rule next to sprite reference directive: %s", line)
			return nil, false
		}
		dualLine = true
	}

	if len(decls) > 1 {
		c.msg.Warn("more than one rule next to sprite reference directive: %s", line)
		return nil, false
	}
	if decls[0].Property != "background-image" {
		c.msg.Warn("no background-image rule next to sprite reference directive: %s", line)
		return nil, false
	}
	return &decls[0], dualLine
}

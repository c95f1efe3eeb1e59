package sprite

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"spritec/imageutil"
	"spritec/message"
	"spritec/resource"
)

// BuildOptions control the sprite pipeline.
type BuildOptions struct {
	// DocumentRoot resolves /-absolute urls. Empty means absolute urls are
	// not supported and warn.
	DocumentRoot string
	// SpriteDir is the stylesheet-relative directory for sprites whose
	// directive carries no sprite-image location.
	SpriteDir string
	// CSSSuffix is appended to rewritten stylesheet names ("-sprite" when
	// empty).
	CSSSuffix string
	// JPEGQuality for jpg sprites, 1..100.
	JPEGQuality int
	// Matte flattens transparency for formats without alpha when the
	// directive does not set its own matte color.
	Matte color.Color
	// FailOnWarnings turns collected warnings into a run failure after all
	// files are processed.
	FailOnWarnings bool
}

// Builder drives the whole pipeline: collect directives, aggregate, lay
// out, render and write sprites, rewrite stylesheets.
type Builder struct {
	opts BuildOptions
	log  *zap.Logger
	msg  *message.Log
	res  resource.Handler
}

func NewBuilder(opts BuildOptions, res resource.Handler, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		opts: opts,
		log:  log.Named("sprites"),
		msg:  message.NewLog(log),
		res:  res,
	}
}

// Messages exposes the diagnostics collected during the run.
func (b *Builder) Messages() *message.Log {
	return b.msg
}

// Build processes the given stylesheets. Grammar and structural problems
// warn and drop the affected occurrence; unreadable resources abort.
func (b *Builder) Build(ctx context.Context, files []string) error {
	collector := NewCollector(b.msg, b.res)

	var imageOccurrences []*ImageOccurrence
	for _, f := range files {
		b.log.Debug("Reading sprite image directives", zap.String("css", f))
		occs, err := collector.CollectImageOccurrences(f)
		if err != nil {
			return err
		}
		imageOccurrences = append(imageOccurrences, occs...)
	}
	imagesByID, idOrder := MergeImageOccurrences(imageOccurrences, b.msg)

	var referenceOccurrences []*ReferenceOccurrence
	for _, f := range files {
		b.log.Debug("Reading sprite reference directives", zap.String("css", f))
		occs, err := collector.CollectReferenceOccurrences(f, imagesByID)
		if err != nil {
			return err
		}
		referenceOccurrences = append(referenceOccurrences, occs...)
	}
	referencesByID := MergeReferenceOccurrences(referenceOccurrences)

	rewrites := make(map[string]map[int]LineRewrite)

	var errs error
	built := 0
	for _, id := range idOrder {
		if err := ctx.Err(); err != nil {
			return err
		}
		references := referencesByID[id]
		if len(references) == 0 {
			b.log.Debug("Sprite image has no references, skipping", zap.String("sprite", id))
			continue
		}
		if err := b.buildSprite(imagesByID[id], references, rewrites); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		built++
	}

	rewriter := NewRewriter(b.msg, b.res, b.opts.CSSSuffix)
	for _, f := range files {
		fileRewrites := rewrites[f]
		if len(fileRewrites) == 0 {
			continue
		}
		out, err := rewriter.RewriteFile(f, fileRewrites)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		b.log.Info("Stylesheet rewritten", zap.String("css", f), zap.String("output", out))
	}

	b.log.Info("Sprite processing completed",
		zap.Int("stylesheets", len(files)),
		zap.Int("sprites", built),
		zap.Int("warnings", b.msg.WarningCount()))

	if b.opts.FailOnWarnings && b.msg.WarningCount() > 0 {
		errs = multierr.Append(errs, fmt.Errorf("run produced %d warnings", b.msg.WarningCount()))
	}
	return errs
}

// buildSprite lays out, renders and writes one sprite group and records
// the replacement for every usable member.
func (b *Builder) buildSprite(occ *ImageOccurrence, references []*ReferenceOccurrence, rewrites map[string]map[int]LineRewrite) error {
	id := occ.Directive.SpriteID

	members := make([]Member, 0, len(references))
	for _, ref := range references {
		b.msg.SetCSSFile(ref.CSSFile)
		b.msg.SetLine(ref.Line)

		p, ok := b.resolveURL(ref.CSSFile, ref.ImagePath)
		if !ok {
			continue
		}
		img, err := imageutil.Load(p)
		if err != nil {
			b.msg.Warn("unable to load image '%s': %v", ref.ImagePath, err)
			continue
		}
		members = append(members, Member{Occurrence: ref, Image: img})
	}
	if len(members) == 0 {
		b.log.Debug("Sprite has no usable members, skipping", zap.String("sprite", id))
		return nil
	}

	s := BuildSpriteImage(occ, members)
	canvas := s.Render()

	spriteURL := occ.Directive.ResolvedImagePath(b.opts.SpriteDir)
	b.msg.SetCSSFile(occ.CSSFile)
	b.msg.SetLine(occ.Line)
	spritePath, ok := b.resolveURL(occ.CSSFile, spriteURL)
	if !ok {
		return fmt.Errorf("unable to resolve sprite image location '%s' for sprite '%s'", spriteURL, id)
	}

	w, err := b.res.WriteBinary(spritePath)
	if err != nil {
		return fmt.Errorf("unable to create sprite image '%s': %w", spritePath, err)
	}
	encOpts := imageutil.EncodeOptions{JPEGQuality: b.opts.JPEGQuality, Matte: b.opts.Matte}
	if occ.Directive.HasMatte {
		encOpts.Matte = occ.Directive.Matte
	}
	if err := imageutil.Encode(w, canvas, occ.Directive.Format.String(), encOpts); err != nil {
		w.Close()
		return fmt.Errorf("unable to encode sprite image '%s': %w", spritePath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to write sprite image '%s': %w", spritePath, err)
	}
	b.log.Info("Sprite image written",
		zap.String("sprite", id),
		zap.String("image", spritePath),
		zap.String("layout", s.Layout().String()),
		zap.Int("members", len(members)),
		zap.Int("width", s.Width),
		zap.Int("height", s.Height))

	for _, repl := range s.Replacements() {
		ref := repl.Occurrence
		fileRewrites := rewrites[ref.CSSFile]
		if fileRewrites == nil {
			fileRewrites = make(map[int]LineRewrite)
			rewrites[ref.CSSFile] = fileRewrites
		}
		fileRewrites[ref.Line] = LineRewrite{
			Replacement: repl,
			SpriteURL:   relativeURL(filepath.Dir(ref.CSSFile), spritePath),
		}
	}
	return nil
}

// resolveURL maps a stylesheet url to a filesystem path. Relative urls
// resolve against the stylesheet's directory, /-absolute urls against the
// document root. Query and fragment suffixes are dropped. Non-local urls
// warn and fail resolution.
func (b *Builder) resolveURL(cssFile, url string) (string, bool) {
	u := url
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if strings.Contains(u, "://") || strings.HasPrefix(strings.ToLower(u), "data:") {
		b.msg.Warn("unsupported non-local url: %s", url)
		return "", false
	}
	if len(u) == 0 {
		b.msg.Warn("empty url: %s", url)
		return "", false
	}
	if strings.HasPrefix(u, "/") {
		if len(b.opts.DocumentRoot) == 0 {
			b.msg.Warn("cannot resolve absolute url without document root: %s", url)
			return "", false
		}
		return filepath.Join(b.opts.DocumentRoot, filepath.FromSlash(u)), true
	}
	return filepath.Join(filepath.Dir(cssFile), filepath.FromSlash(u)), true
}

// relativeURL renders target as a slash-separated url relative to fromDir.
func relativeURL(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

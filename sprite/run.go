package sprite

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"spritec/resource"
	"spritec/state"
)

// Run implements "build" command.
func Run(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	log := env.Log

	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheets to process")
	}

	files, err := resource.ResolveFiles(cmd.Args().Slice())
	if err != nil {
		return fmt.Errorf("unable to resolve stylesheet paths: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no stylesheets found")
	}

	proc := env.Cfg.Processing

	docRoot := proc.DocumentRootDir
	if s := cmd.String("document-root"); len(s) > 0 {
		docRoot = s
	}

	var matte color.Color
	if len(proc.Images.MatteColor) > 0 {
		c, ok := parseHexColor(proc.Images.MatteColor)
		if !ok {
			return fmt.Errorf("bad matte color in configuration: %s", proc.Images.MatteColor)
		}
		matte = c
	}

	res, err := resource.NewFileSystem(proc.CSSFileEncoding)
	if err != nil {
		return fmt.Errorf("unable to prepare stylesheet encoding: %w", err)
	}

	log.Debug("Starting sprite run",
		zap.String("run", env.RunID.String()),
		zap.Int("stylesheets", len(files)))

	for _, f := range files {
		if err := env.Rpt.StoreCopy(filepath.ToSlash(filepath.Join("css", filepath.Base(f))), f); err != nil {
			log.Warn("Unable to store stylesheet in debug report", zap.String("css", f), zap.Error(err))
		}
	}

	b := NewBuilder(BuildOptions{
		DocumentRoot:   docRoot,
		SpriteDir:      proc.SpriteDir,
		CSSSuffix:      proc.CSSFileSuffix,
		JPEGQuality:    proc.Images.JPEGQuality,
		Matte:          matte,
		FailOnWarnings: proc.FailOnWarnings || cmd.Bool("fail-on-warnings"),
	}, res, log)

	return b.Build(ctx, files)
}

// Package imageutil handles decoding of sprite member images and encoding
// of composed sprite canvases.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load reads and decodes a member image. SVG content is rasterized at its
// intrinsic size, raster formats go through the registered decoders
// (png/gif/jpeg plus bmp/tiff/webp).
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isSVG(path, data) {
		img, err := RasterizeSVG(data, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize SVG '%s': %w", path, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// sniff the content to name the format in the error when we can
		if t, e := filetype.Match(data); e == nil && t != types.Unknown {
			return nil, fmt.Errorf("unsupported image format '%s' in '%s': %w", t.Extension, path, err)
		}
		return nil, fmt.Errorf("unable to decode image '%s': %w", path, err)
	}
	return img, nil
}

// isSVG detects SVG content by extension or by sniffing the leading bytes.
// SVG is text so magic-number detection does not apply.
func isSVG(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.TrimSpace(string(head))
	return strings.HasPrefix(s, "<svg") || (strings.HasPrefix(s, "<?xml") && strings.Contains(s, "<svg"))
}

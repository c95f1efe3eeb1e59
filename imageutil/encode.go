package imageutil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// EncodeOptions tune sprite encoding for formats that need it.
type EncodeOptions struct {
	// JPEGQuality in the 1..100 range; JPEG only.
	JPEGQuality int
	// Matte is the background color transparent pixels are flattened onto
	// for formats without an alpha channel. White when nil.
	Matte color.Color
}

// Encode writes the sprite canvas in the requested format ("png", "jpg" or
// "gif"). JPEG output is flattened onto the matte color first since the
// format has no alpha channel.
func Encode(w io.Writer, img image.Image, format string, opts EncodeOptions) error {
	switch format {
	case "png":
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "gif":
		return imaging.Encode(w, img, imaging.GIF)
	case "jpg", "jpeg":
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = 90
		}
		data, err := encodeJPEGWithDPI(Flatten(img, opts.Matte), quality, 300, 300)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported sprite image format: %s", format)
	}
}

// Flatten composes img over a uniform matte background, removing
// transparency.
func Flatten(img image.Image, matte color.Color) *image.NRGBA {
	if matte == nil {
		matte = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, img.Bounds(), &image.Uniform{C: matte}, image.Point{}, draw.Src)
	draw.Draw(out, img.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// encodeJPEGWithDPI encodes to JPEG and makes sure the JFIF APP0 segment
// with pixel density is present. The standard encoder omits it and some
// consumers require it.
func encodeJPEGWithDPI(img image.Image, quality int, xdensity, ydensity int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	out, _, err := ensureJFIFAPP0(buf.Bytes(), xdensity, ydensity)
	return out, err
}

// ensureJFIFAPP0 inserts a JFIF APP0 marker segment (px-per-inch units)
// right after SOI when it is missing. Reports whether the data changed.
func ensureJFIFAPP0(jpegData []byte, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	// must start with the SOI marker
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}

	marker := []byte{0xFF, 0xE0}                             // APP0 segment marker
	jfif := []byte{0x4A, 0x46, 0x49, 0x46, 0x00, 0x01, 0x02} // jfif + version

	if jpegData[2] == marker[0] && jpegData[3] == marker[1] {
		return jpegData, false, nil
	}

	const dpiPxPerInch = 1

	buf := new(bytes.Buffer)
	buf.Write(jpegData[:2])
	buf.Write(marker)
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10)) // segment length
	buf.Write(jfif)
	_ = binary.Write(buf, binary.BigEndian, uint8(dpiPxPerInch))
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}

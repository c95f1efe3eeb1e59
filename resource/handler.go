// Package resource abstracts access to stylesheets and image files so the
// pipeline never touches the filesystem directly. Text streams are
// transparently transcoded when a non UTF-8 stylesheet encoding is
// configured.
package resource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Handler yields readable and writable byte or text streams for named
// resources.
type Handler interface {
	OpenText(path string) (io.ReadCloser, error)
	OpenBinary(path string) (io.ReadCloser, error)
	WriteText(path string) (io.WriteCloser, error)
	WriteBinary(path string) (io.WriteCloser, error)
}

// FileSystem is the Handler over the local filesystem. Writes create
// missing parent directories.
type FileSystem struct {
	enc encoding.Encoding // nil means UTF-8 passthrough
}

// NewFileSystem creates a filesystem handler for the given IANA character
// set name. Empty name and utf-8 need no transcoding.
func NewFileSystem(charset string) (*FileSystem, error) {
	fs := &FileSystem{}
	if len(charset) == 0 || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return fs, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported stylesheet encoding '%s': %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported stylesheet encoding '%s'", charset)
	}
	fs.enc = enc
	return fs, nil
}

func (fs *FileSystem) OpenText(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if fs.enc == nil {
		return f, nil
	}
	return &transformReadCloser{r: transform.NewReader(f, fs.enc.NewDecoder()), c: f}, nil
}

func (fs *FileSystem) OpenBinary(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (fs *FileSystem) WriteText(path string) (io.WriteCloser, error) {
	f, err := fs.create(path)
	if err != nil {
		return nil, err
	}
	if fs.enc == nil {
		return f, nil
	}
	return &transformWriteCloser{w: transform.NewWriter(f, fs.enc.NewEncoder()), c: f}, nil
}

func (fs *FileSystem) WriteBinary(path string) (io.WriteCloser, error) {
	return fs.create(path)
}

func (fs *FileSystem) create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); len(dir) > 0 {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type transformReadCloser struct {
	r io.Reader
	c io.Closer
}

func (t *transformReadCloser) Read(p []byte) (int, error) { return t.r.Read(p) }
func (t *transformReadCloser) Close() error               { return t.c.Close() }

type transformWriteCloser struct {
	w *transform.Writer
	c io.Closer
}

func (t *transformWriteCloser) Write(p []byte) (int, error) { return t.w.Write(p) }

func (t *transformWriteCloser) Close() error {
	if err := t.w.Close(); err != nil {
		t.c.Close()
		return err
	}
	return t.c.Close()
}

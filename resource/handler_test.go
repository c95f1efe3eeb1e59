package resource

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFileSystem(t *testing.T) {
	tests := []struct {
		charset   string
		transcode bool
		shouldErr bool
	}{
		{"", false, false},
		{"utf-8", false, false},
		{"UTF-8", false, false},
		{"iso-8859-1", true, false},
		{"windows-1251", true, false},
		{"no-such-charset", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			fs, err := NewFileSystem(tt.charset)
			if tt.shouldErr {
				if err == nil {
					t.Error("Expected error for unsupported charset")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFileSystem(%q) error = %v", tt.charset, err)
			}
			if (fs.enc != nil) != tt.transcode {
				t.Errorf("transcoding = %v, want %v", fs.enc != nil, tt.transcode)
			}
		})
	}
}

func TestFileSystem_TextRoundTrip(t *testing.T) {
	fs, err := NewFileSystem("iso-8859-1")
	if err != nil {
		t.Fatalf("NewFileSystem() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "sub", "styles.css")
	text := ".café { color: red; }\n"

	w, err := fs.WriteText(path)
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		t.Fatalf("write error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	// on disk the text is latin-1, not utf-8
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read written file: %v", err)
	}
	if !bytes.Contains(raw, []byte{0xe9}) {
		t.Error("written file should contain latin-1 encoded bytes")
	}
	if bytes.Contains(raw, []byte("café")) {
		t.Error("written file should not contain utf-8 encoded text")
	}

	r, err := fs.OpenText(path)
	if err != nil {
		t.Fatalf("OpenText() error = %v", err)
	}
	defer r.Close()
	back, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read error = %v", err)
	}
	if string(back) != text {
		t.Errorf("round trip = %q, want %q", string(back), text)
	}
}

func TestFileSystem_WriteCreatesDirectories(t *testing.T) {
	fs, err := NewFileSystem("")
	if err != nil {
		t.Fatalf("NewFileSystem() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "a", "b", "c.png")
	w, err := fs.WriteBinary(path)
	if err != nil {
		t.Fatalf("WriteBinary() error = %v", err)
	}
	if _, err := w.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("write error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("file was not created: %v", err)
	}
}

package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReportFinalize(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(tmpDir, "styles.css")
	if err := os.WriteFile(stored, []byte(".a { color: red; }\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r.Store("css/styles.css", stored)
	r.StoreData("notes.txt", []byte("hello"))
	// absent files are silently skipped during finalization
	r.Store("missing.log", filepath.Join(tmpDir, "does-not-exist.log"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	arc, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("unable to open report archive: %v", err)
	}
	defer arc.Close()

	found := make(map[string]bool)
	for _, f := range arc.File {
		found[f.Name] = true
	}

	for _, want := range []string{"MANIFEST", "css/styles.css", "notes.txt"} {
		if !found[want] {
			t.Errorf("report archive is missing entry %q", want)
		}
	}
	if found["missing.log"] {
		t.Error("report archive should not contain entry for absent file")
	}
}

func TestReportStoreCopy(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	src := filepath.Join(tmpDir, "source.css")
	if err := os.WriteFile(src, []byte("original"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := r.StoreCopy("css/source.css", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}

	// mutate the source after the copy was taken
	if err := os.WriteFile(src, []byte("changed"), 0644); err != nil {
		t.Fatalf("failed to overwrite test file: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	arc, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("unable to open report archive: %v", err)
	}
	defer arc.Close()

	for _, f := range arc.File {
		if f.Name != "css/source.css" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open archive entry: %v", err)
		}
		buf := make([]byte, 16)
		n, _ := rc.Read(buf)
		rc.Close()
		if got := string(buf[:n]); got != "original" {
			t.Errorf("archived copy = %q, want %q", got, "original")
		}
		return
	}
	t.Error("report archive is missing copied entry")
}

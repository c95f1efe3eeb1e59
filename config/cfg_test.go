package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if cfg.Processing.SpriteDir != "sprites" {
		t.Errorf("SpriteDir = %q, want %q", cfg.Processing.SpriteDir, "sprites")
	}

	if cfg.Processing.CSSFileSuffix != "-sprite" {
		t.Errorf("CSSFileSuffix = %q, want %q", cfg.Processing.CSSFileSuffix, "-sprite")
	}

	if cfg.Processing.CSSFileEncoding != "utf-8" {
		t.Errorf("CSSFileEncoding = %q, want %q", cfg.Processing.CSSFileEncoding, "utf-8")
	}

	if cfg.Processing.Images.JPEGQuality < 40 || cfg.Processing.Images.JPEGQuality > 100 {
		t.Errorf("JPEGQuality = %d, should be between 40 and 100", cfg.Processing.Images.JPEGQuality)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
processing:
  sprite_dir: "generated"
  css_file_suffix: ".out"
  css_file_encoding: "utf-8"
  fail_on_warnings: true
  images:
    jpeg_quality_level: 75
    matte_color: "#102030"
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Processing.SpriteDir != "generated" {
		t.Errorf("SpriteDir = %q, want %q", cfg.Processing.SpriteDir, "generated")
	}

	if cfg.Processing.CSSFileSuffix != ".out" {
		t.Errorf("CSSFileSuffix = %q, want %q", cfg.Processing.CSSFileSuffix, ".out")
	}

	if !cfg.Processing.FailOnWarnings {
		t.Error("Expected FailOnWarnings to be true")
	}

	if cfg.Processing.Images.JPEGQuality != 75 {
		t.Errorf("JPEGQuality = %d, want 75", cfg.Processing.Images.JPEGQuality)
	}

	if cfg.Processing.Images.MatteColor != "#102030" {
		t.Errorf("MatteColor = %q, want %q", cfg.Processing.Images.MatteColor, "#102030")
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	// Partial config that only overrides some values
	partialConfig := `version: 1
processing:
  fail_on_warnings: true
`

	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Processing.FailOnWarnings {
		t.Error("Expected FailOnWarnings to be true from config file")
	}

	// Check that default values are still present for unspecified fields
	if cfg.Processing.SpriteDir != "sprites" {
		t.Errorf("SpriteDir should keep its default, got %q", cfg.Processing.SpriteDir)
	}
	if cfg.Processing.Images.JPEGQuality != 90 {
		t.Errorf("JPEGQuality should keep its default, got %d", cfg.Processing.Images.JPEGQuality)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad version", "version: 2\n"},
		{"jpeg quality too low", `version: 1
processing:
  images:
    jpeg_quality_level: 10
`},
		{"bad matte color", `version: 1
processing:
  images:
    matte_color: "not-a-color"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Processing.SpriteDir != cfg.Processing.SpriteDir {
		t.Errorf("SpriteDir mismatch after dump/load: got %q, want %q", cfg2.Processing.SpriteDir, cfg.Processing.SpriteDir)
	}
}

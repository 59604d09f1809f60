package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"noxsub/internal/caption"
	"noxsub/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Fatalf("unexpected backend url %q", cfg.Backend.URL)
	}
	if cfg.Backend.HealthTimeoutSeconds != 5 {
		t.Fatalf("unexpected health timeout %d", cfg.Backend.HealthTimeoutSeconds)
	}
	if cfg.Style.FontSize != 17 || cfg.Style.Position != "bottom" {
		t.Fatalf("unexpected default style %+v", cfg.Style)
	}
}

func TestCaptionStyleConversion(t *testing.T) {
	style := config.Style{
		FontSize:        21,
		Color:           "#FFEE00",
		FontFamily:      "Inter, sans-serif",
		Position:        "middle",
		BackgroundColor: "rgba(0, 0, 0, 0.5)",
	}
	got := style.CaptionStyle()
	if got.FontSize != 21 || got.Color != "#FFEE00" || got.Position != caption.PositionMiddle {
		t.Fatalf("unexpected converted style %+v", got)
	}

	style.Position = "sideways"
	if got := style.CaptionStyle(); got.Position != caption.PositionBottom {
		t.Fatalf("expected bottom fallback, got %q", got.Position)
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
url = "http://captions.local:9000"

[transcription]
model = "medium"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Backend.URL != "http://captions.local:9000" {
		t.Fatalf("override not applied: %q", cfg.Backend.URL)
	}
	if cfg.Transcription.Model != "medium" {
		t.Fatalf("override not applied: %q", cfg.Transcription.Model)
	}
	if cfg.Render.Quality != "medium" {
		t.Fatalf("default not applied: %q", cfg.Render.Quality)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad url":      "[backend]\nurl = \"not a url\"\n",
		"bad model":    "[transcription]\nmodel = \"gigantic\"\n",
		"bad quality":  "[render]\nquality = \"ultra\"\n",
		"bad position": "[style]\nposition = \"left\"\n",
		"bad format":   "[logging]\nformat = \"xml\"\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.ExportDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[backend]") {
		t.Fatal("sample config missing backend section")
	}
}

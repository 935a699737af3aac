package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SquareSize != 72 || cfg.Color != ColorAuto || cfg.StartFEN != "startpos" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	p, err := cfg.Theme.Palette()
	if err != nil {
		t.Fatalf("Palette: %v", err)
	}
	if p.Light != (color.RGBA{233, 207, 163, 255}) {
		t.Fatalf("unexpected light colour: %v", p.Light)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "viewer.yaml", `
theme:
  light: "#ffffff"
  dark: "#000000"
square_size: 40
flip: true
color: never
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SquareSize != 40 || !cfg.Flip || cfg.Color != ColorNever {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Theme.Highlight != "#ffe478" {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.Theme.Highlight)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "viewer.toml", `
square_size = 32
render_interval_ms = 0
start_fen = "4k3/8/8/8/8/8/8/4K3 w - - 0 1"

[theme]
dark = "#112233"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SquareSize != 32 || cfg.RenderIntervalMS != 0 {
		t.Fatalf("toml not applied: %+v", cfg)
	}
	p, _ := cfg.Theme.Palette()
	if p.Dark != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Fatalf("unexpected dark colour: %v", p.Dark)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "viewer.yml", "square_size: 40\n")
	t.Setenv("BOARDVIEW_SQUARE_SIZE", "64")
	t.Setenv("BOARDVIEW_FLIP", "true")
	t.Setenv("BOARDVIEW_COLOR", "ALWAYS")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SquareSize != 64 || !cfg.Flip || cfg.Color != ColorAlways {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"bad.yaml":  "theme:\n  light: not-a-colour\n",
		"size.yaml": "square_size: 4\n",
		"mode.yaml": "color: sometimes\n",
		"conf.ini":  "x=1\n",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, name, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

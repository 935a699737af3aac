package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	yaml "gopkg.in/yaml.v3"
)

// Theme holds board colours as hex strings ("#e9cfa3").
type Theme struct {
	Light       string `yaml:"light" toml:"light"`
	Dark        string `yaml:"dark" toml:"dark"`
	Highlight   string `yaml:"highlight" toml:"highlight"`
	Coordinates string `yaml:"coordinates" toml:"coordinates"`
}

type AppConfig struct {
	Theme Theme `yaml:"theme" toml:"theme"`

	SquareSize int    `yaml:"square_size" toml:"square_size"`
	Flip       bool   `yaml:"flip" toml:"flip"`
	Color      string `yaml:"color" toml:"color"`

	RenderIntervalMS int `yaml:"render_interval_ms" toml:"render_interval_ms"`

	MessagesDir string `yaml:"messages_dir" toml:"messages_dir"`
	StartFEN    string `yaml:"start_fen" toml:"start_fen"`
	MetricsOut  string `yaml:"metrics_out" toml:"metrics_out"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

func Default() *AppConfig {
	return &AppConfig{
		Theme: Theme{
			Light:       "#e9cfa3",
			Dark:        "#bb8860",
			Highlight:   "#ffe478",
			Coordinates: "#08d678",
		},
		SquareSize:       72,
		Color:            ColorAuto,
		RenderIntervalMS: 50,
		StartFEN:         "startpos",
	}
}

// Load applies defaults, then the optional file at path (.yaml, .yml or .toml),
// then BOARDVIEW_* environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if p := strings.TrimSpace(path); p != "" {
		if err := cfg.loadFile(p); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_LIGHT_COLOR")); v != "" {
		c.Theme.Light = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_DARK_COLOR")); v != "" {
		c.Theme.Dark = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_HIGHLIGHT_COLOR")); v != "" {
		c.Theme.Highlight = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.SquareSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_FLIP")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Flip = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_COLOR")); v != "" {
		c.Color = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_RENDER_INTERVAL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RenderIntervalMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_MESSAGES_DIR")); v != "" {
		c.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_START_FEN")); v != "" {
		c.StartFEN = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARDVIEW_METRICS_OUT")); v != "" {
		c.MetricsOut = v
	}
}

func (c *AppConfig) Validate() error {
	if c.SquareSize < 16 || c.SquareSize > 256 {
		return fmt.Errorf("square_size must be within 16..256, got %d", c.SquareSize)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.RenderIntervalMS < 0 {
		return errors.New("render_interval_ms must not be negative")
	}
	if _, err := c.Theme.Palette(); err != nil {
		return err
	}
	return nil
}

// Palette is a parsed Theme.
type Palette struct {
	Light       color.RGBA
	Dark        color.RGBA
	Highlight   color.RGBA
	Coordinates color.RGBA
}

func (t Theme) Palette() (Palette, error) {
	var p Palette
	for _, f := range []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"light", t.Light, &p.Light},
		{"dark", t.Dark, &p.Dark},
		{"highlight", t.Highlight, &p.Highlight},
		{"coordinates", t.Coordinates, &p.Coordinates},
	} {
		c, err := colorful.Hex(strings.TrimSpace(f.hex))
		if err != nil {
			return Palette{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		r, g, b := c.RGB255()
		*f.dst = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}

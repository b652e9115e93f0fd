package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable output and build settings.
type Config struct {
	OutputDir string `json:"output_dir"`

	// Mesh settings
	Mode       string  `json:"mode"`   // "plane" or "solid"
	Format     string  `json:"format"` // "obj" or "stl"
	ScaleXY    float64 `json:"scale_xy"`
	ScaleZ     float64 `json:"scale_z"`
	BaseMargin float64 `json:"base_margin"`
	Normalize  bool    `json:"normalize"`

	// Preview settings
	Preview       bool   `json:"preview"`
	PreviewFormat string `json:"preview_format"` // "webp", "png" or "tga"
	PreviewSize   int    `json:"preview_size"`
	Supersample   int    `json:"supersample"`

	Workers int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir     string
	Mode          string
	Format        string
	ScaleXY       float64
	ScaleZ        float64
	BaseMargin    float64
	Normalize     bool
	Preview       bool
	PreviewFormat string
	Workers       int
}

// Resolve applies CLI flag overrides and fills remaining empty fields with
// defaults. Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.ScaleXY > 0 {
		c.ScaleXY = flags.ScaleXY
	}
	if flags.ScaleZ > 0 {
		c.ScaleZ = flags.ScaleZ
	}
	if flags.BaseMargin > 0 {
		c.BaseMargin = flags.BaseMargin
	}
	if flags.Normalize {
		c.Normalize = true
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.PreviewFormat != "" {
		c.PreviewFormat = flags.PreviewFormat
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Mode == "" {
		c.Mode = "plane"
	}
	if c.Format == "" {
		c.Format = "obj"
	}
	if c.ScaleXY <= 0 {
		c.ScaleXY = 1
	}
	if c.ScaleZ <= 0 {
		c.ScaleZ = 1
	}
	if c.BaseMargin <= 0 {
		c.BaseMargin = 0.1
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = "webp"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate rejects setting combinations the pipeline cannot honor.
func (c *Config) Validate() error {
	switch c.Mode {
	case "plane", "solid":
	default:
		return fmt.Errorf("config: unknown mode %q (want plane or solid)", c.Mode)
	}
	switch c.Format {
	case "obj", "stl":
	default:
		return fmt.Errorf("config: unknown format %q (want obj or stl)", c.Format)
	}
	switch c.PreviewFormat {
	case "webp", "png", "tga":
	default:
		return fmt.Errorf("config: unknown preview format %q (want webp, png or tga)", c.PreviewFormat)
	}
	return nil
}

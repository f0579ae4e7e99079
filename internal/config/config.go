// Package config handles hair pipeline configuration loading and management.
package config

import (
	"github.com/Faultbox/midgard-hair/internal/bake"
	"github.com/Faultbox/midgard-hair/internal/groom"
	"github.com/Faultbox/midgard-hair/internal/lod"
	"github.com/Faultbox/midgard-hair/internal/shading"
	"github.com/Faultbox/midgard-hair/internal/sim"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Config holds all pipeline settings.
type Config struct {
	Surface  SurfaceConfig    `yaml:"surface"`
	Groom    groom.Params     `yaml:"groom"`
	Sim      sim.Params       `yaml:"sim"`
	Material shading.Material `yaml:"material"`
	Light    LightConfig      `yaml:"light"`
	Bake     bake.Params      `yaml:"bake"`
	LOD      lod.Config       `yaml:"lod"`
	Run      RunConfig        `yaml:"run"`
	Export   ExportConfig     `yaml:"export"`
	Logging  LoggingConfig    `yaml:"logging"`
}

// SurfaceConfig describes the built-in scalp surface.
type SurfaceConfig struct {
	Radius         float32 `yaml:"radius"`
	LowerElevation float64 `yaml:"lower_elevation"` // radians below the equator
	Rings          int     `yaml:"rings"`
	Segments       int     `yaml:"segments"`
}

// LightConfig holds the preview light.
type LightConfig struct {
	Longitude float32   `yaml:"longitude"` // degrees
	Latitude  float32   `yaml:"latitude"`  // degrees
	Color     math.RGB  `yaml:"color"`
	Eye       math.Vec3 `yaml:"eye"`
}

// RunConfig holds simulation run and LOD query settings.
type RunConfig struct {
	Ticks    int     `yaml:"ticks"`
	TickRate float32 `yaml:"tick_rate"` // Hz
	Distance float32 `yaml:"distance"`  // camera distance for LOD selection
}

// ExportConfig holds output settings.
type ExportConfig struct {
	OutputDir     string `yaml:"output_dir"`
	TextureFormat string `yaml:"texture_format"` // tga, bmp, tiff, or png
	Tubes         bool   `yaml:"tubes"`          // write the tube mesh
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{
			Radius:         0.1,
			LowerElevation: 0.3,
			Rings:          8,
			Segments:       24,
		},
		Groom:    groom.DefaultParams(),
		Sim:      sim.DefaultParams(),
		Material: shading.DefaultMaterial(),
		Light: LightConfig{
			Longitude: 45,
			Latitude:  45,
			Color:     math.White,
			Eye:       math.Vec3{Y: 0.05, Z: 1},
		},
		Bake: bake.DefaultParams(),
		LOD:  lod.DefaultConfig(),
		Run: RunConfig{
			Ticks:    60,
			TickRate: 60,
			Distance: 0,
		},
		Export: ExportConfig{
			OutputDir:     "out",
			TextureFormat: "tga",
			Tubes:         true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

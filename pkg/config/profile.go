// Package config loads the optional YAML render profile and builds the
// zap-backed logger.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional render profile read from YAML. Every field is a
// pointer so an absent key can be told apart from an explicit zero value —
// only fields the user actually wrote are applied on top of the defaults,
// and a CLI flag the user actually passed always wins over either.
type Profile struct {
	Width             *int     `yaml:"width"`
	Height            *int     `yaml:"height"`
	SamplesPerPixel   *int     `yaml:"samples_per_pixel"`
	SubPixelGrid      *int     `yaml:"sub_pixel_grid"`
	Workers           *int     `yaml:"workers"`
	Output            *string  `yaml:"output"`
	Aperture          *float64 `yaml:"aperture"`
	FocusDistance     *float64 `yaml:"focus_distance"`
	VerticalFOV       *float64 `yaml:"vfov"`
	AdaptiveThreshold *float64 `yaml:"adaptive_threshold"`
	Verbose           *bool    `yaml:"verbose"`
}

// LoadProfile reads and parses a YAML render profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing profile: %w", err)
	}
	return &p, nil
}

// Config is the fully resolved set of render settings: defaults, optionally
// overridden by a Profile, optionally overridden again by CLI flags.
type Config struct {
	Width, Height     int
	SamplesPerPixel   int
	SubPixelGrid      int
	Workers           int
	Output            string
	Aperture          float64
	FocusDistance     float64
	VerticalFOV       float64
	AdaptiveThreshold float64
	Verbose           bool
}

// Default returns the baseline configuration applied before any profile or
// flag override.
func Default() Config {
	return Config{
		Width: 800, Height: 600,
		SamplesPerPixel: 128,
		SubPixelGrid:    1,
		Workers:         4,
		Output:          "render.bmp",
		Aperture:        0,
		FocusDistance:   10,
		VerticalFOV:     40,
	}
}

// Apply overlays every explicitly-set field of p onto c. A nil Profile is a
// no-op, so callers can always call Apply even when no --profile flag was
// given.
func (p *Profile) Apply(c *Config) {
	if p == nil {
		return
	}
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	if p.SamplesPerPixel != nil {
		c.SamplesPerPixel = *p.SamplesPerPixel
	}
	if p.SubPixelGrid != nil {
		c.SubPixelGrid = *p.SubPixelGrid
	}
	if p.Workers != nil {
		c.Workers = *p.Workers
	}
	if p.Output != nil {
		c.Output = *p.Output
	}
	if p.Aperture != nil {
		c.Aperture = *p.Aperture
	}
	if p.FocusDistance != nil {
		c.FocusDistance = *p.FocusDistance
	}
	if p.VerticalFOV != nil {
		c.VerticalFOV = *p.VerticalFOV
	}
	if p.AdaptiveThreshold != nil {
		c.AdaptiveThreshold = *p.AdaptiveThreshold
	}
	if p.Verbose != nil {
		c.Verbose = *p.Verbose
	}
}

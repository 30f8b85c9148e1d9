// Package config turns user options from flags and an optional YAML file into resolved engine inputs
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/matrix-rain/charset"
	"github.com/lixenwraith/matrix-rain/terminal"
)

const (
	DefaultTheme     = "green"
	DefaultSpeed     = 5.0
	DefaultDensity   = 0.7
	DefaultColorMode = "auto"

	MinSpeed   = 1.0
	MaxSpeed   = 50.0
	MinDensity = 0.1
	MaxDensity = 3.0
)

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrOutOfRange   = errors.New("value out of range")
)

// Options is raw user input; field names double as YAML keys
type Options struct {
	Color      string  `yaml:"color"`      // theme name or color literal
	Background string  `yaml:"background"` // color literal, empty auto-detects
	Chars      string  `yaml:"chars"`
	Speed      float64 `yaml:"speed"`
	Density    float64 `yaml:"density"`
	ColorMode  string  `yaml:"color_mode"`
}

// Defaults returns the options used when nothing is specified
func Defaults() Options {
	return Options{
		Color:     DefaultTheme,
		Chars:     charset.Default,
		Speed:     DefaultSpeed,
		Density:   DefaultDensity,
		ColorMode: DefaultColorMode,
	}
}

// Config is the validated, fully resolved configuration
type Config struct {
	Base       terminal.RGB
	Background terminal.RGB
	Chars      []rune
	Speed      float64 // rows per second
	Density    float64
	ColorMode  terminal.ColorMode
}

// BackgroundDetector reports the terminal's background color
type BackgroundDetector func() (terminal.RGB, error)

// LoadFile overlays keys present in a YAML file onto opts
// Keys absent from the file leave opts untouched; unknown keys are rejected
func LoadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(opts); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Resolve validates the options and produces a Config
// detect is only called when no background is given; on failure black is used
func (o Options) Resolve(table *charset.Table, detect BackgroundDetector) (*Config, error) {
	base, err := ResolveColor(o.Color)
	if err != nil {
		return nil, err
	}

	if err := checkRange("speed", o.Speed, MinSpeed, MaxSpeed); err != nil {
		return nil, err
	}
	if err := checkRange("density", o.Density, MinDensity, MaxDensity); err != nil {
		return nil, err
	}

	name := o.Chars
	if name == "" {
		name = charset.Default
	}
	chars, err := table.Lookup(strings.ToLower(name))
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("character set %q is empty", name)
	}

	mode, err := terminal.ParseColorMode(o.ColorMode)
	if err != nil {
		return nil, err
	}

	var background terminal.RGB
	if o.Background != "" {
		background, err = ParseColor(o.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	} else if detect != nil {
		detected, derr := detect()
		if derr != nil {
			log.Printf("Background detection failed, using black: %v", derr)
			background = terminal.RGBBlack
		} else {
			log.Printf("Detected background %s", detected)
			background = detected
		}
	}

	return &Config{
		Base:       base,
		Background: background,
		Chars:      chars,
		Speed:      o.Speed,
		Density:    o.Density,
		ColorMode:  mode,
	}, nil
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %s %v not in [%v, %v]", ErrOutOfRange, name, v, lo, hi)
	}
	return nil
}

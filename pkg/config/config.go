// Package config loads print profiles and service limits from TOML.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/render/sheet"
)

// Margin presets, in inches.
const (
	MarginStandard = 0.25
	MarginNarrow   = 0.125
)

// Default interactive and batch limits.
const (
	DefaultMinQuantity = 1
	DefaultMaxQuantity = 1000
	DefaultMaxTokens   = 10000
	DefaultMaxPages    = 500
)

// Profile is one named print setup.
type Profile struct {
	SheetWidth   float64 `toml:"sheet_width"`  // inches
	SheetHeight  float64 `toml:"sheet_height"` // inches
	Orientation  string  `toml:"orientation"`  // portrait (default) or landscape
	Margin       string  `toml:"margin"`       // standard, narrow, or custom
	CustomMargin float64 `toml:"custom_margin"`

	Footer            bool `toml:"footer"`
	RegistrationMarks bool `toml:"registration_marks"`
	Crosshair         bool `toml:"crosshair"`
	AlignmentMarks    bool `toml:"alignment_marks"`
}

// Limits bound interactive quantities and offline batches.
type Limits struct {
	MinQuantity int `toml:"min_quantity"`
	MaxQuantity int `toml:"max_quantity"`
	MaxTokens   int `toml:"max_tokens"`
	MaxPages    int `toml:"max_pages"`
}

// Config is the full service configuration.
type Config struct {
	BaseURL  string             `toml:"base_url"`
	Limits   Limits             `toml:"limits"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Default returns the built-in configuration: US letter portrait, standard
// margins, all decorations off, stock limits.
func Default() Config {
	return Config{
		Limits: Limits{
			MinQuantity: DefaultMinQuantity,
			MaxQuantity: DefaultMaxQuantity,
			MaxTokens:   DefaultMaxTokens,
			MaxPages:    DefaultMaxPages,
		},
		Profiles: map[string]Profile{
			"letter": {
				SheetWidth:  8.5,
				SheetHeight: 11,
				Orientation: "portrait",
				Margin:      "standard",
			},
			"a4": {
				SheetWidth:  8.27,
				SheetHeight: 11.69,
				Orientation: "portrait",
				Margin:      "standard",
			},
		},
	}
}

// Load reads a TOML configuration file and merges it over the defaults:
// profiles in the file add to or replace the built-in ones, and zero-value
// limits keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	cfg := Default()
	if loaded.BaseURL != "" {
		cfg.BaseURL = loaded.BaseURL
	}
	if loaded.Limits.MinQuantity > 0 {
		cfg.Limits.MinQuantity = loaded.Limits.MinQuantity
	}
	if loaded.Limits.MaxQuantity > 0 {
		cfg.Limits.MaxQuantity = loaded.Limits.MaxQuantity
	}
	if loaded.Limits.MaxTokens > 0 {
		cfg.Limits.MaxTokens = loaded.Limits.MaxTokens
	}
	if loaded.Limits.MaxPages > 0 {
		cfg.Limits.MaxPages = loaded.Limits.MaxPages
	}
	for name, p := range loaded.Profiles {
		cfg.Profiles[name] = p
	}
	return cfg, nil
}

// Profile resolves a named profile. NOT_FOUND for unknown names.
func (c Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, errors.New(errors.ErrCodeNotFound, "print profile %q not found", name)
	}
	return p, nil
}

// SheetSize returns the profile's sheet dimensions in inches, swapped for
// landscape orientation.
func (p Profile) SheetSize() (w, h float64) {
	if p.Orientation == "landscape" {
		return p.SheetHeight, p.SheetWidth
	}
	return p.SheetWidth, p.SheetHeight
}

// Margins resolves the profile's margin preset into sheet margins,
// reserving the alignment band when marks are on.
func (p Profile) Margins() sheet.Margins {
	base := MarginStandard
	switch p.Margin {
	case "narrow":
		base = MarginNarrow
	case "custom":
		if p.CustomMargin > 0 {
			base = p.CustomMargin
		}
	}
	return sheet.EffectiveMargins(base, p.AlignmentMarks)
}

// Decorations returns the profile's decoration toggles.
func (p Profile) Decorations() sheet.Decorations {
	return sheet.Decorations{
		Footer:            p.Footer,
		RegistrationMarks: p.RegistrationMarks,
		Crosshair:         p.Crosshair,
		AlignmentMarks:    p.AlignmentMarks,
	}
}

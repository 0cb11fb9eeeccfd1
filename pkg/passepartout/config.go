// Package passepartout frames photographs: it adds a white border and a footer
// carrying a logo and the capture metadata, then writes a downsized copy that
// keeps the original EXIF block.
package passepartout

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// FooterHeight is the height in pixels of the band reserved below the photo.
const FooterHeight = 800

// Config holds configuration for passepartout.
type Config struct {
	// Margin is the border in pixels added around the photo.
	Margin int `toml:"margin"`
	// LogoPath is the overlay image; black pixels are treated as transparent.
	LogoPath string `toml:"logo"`
	// FontPath is a monospace TrueType/OpenType font. When empty, a built-in bitmap face is used.
	FontPath string `toml:"font"`

	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	Quality   int `toml:"quality"`

	// Extension selects input files by case-sensitive suffix.
	Extension string `toml:"extension"`
	// OutDir is relative to the input directory.
	OutDir string `toml:"out_dir"`

	// KeepGoing logs per-image failures instead of stopping the batch.
	KeepGoing bool `toml:"keep_going"`
	// Exiftool reads tags with the exiftool binary instead of the built-in parser.
	Exiftool bool `toml:"exiftool"`
	// KeepOriginals copies each untouched input to <OutDir>/originals.
	KeepOriginals bool `toml:"keep_originals"`
	// Force reprocesses inputs whose output is already up to date.
	Force bool `toml:"force"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Margin:    50,
		LogoPath:  "logo.jpg",
		FontPath:  "fonts/HackNerdFontMono-Regular.ttf",
		MaxWidth:  2000,
		MaxHeight: 2000,
		Quality:   95,
		Extension: ".JPG",
		OutDir:    "output",
	}
}

// LoadConfig reads a TOML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// Validate reports configuration values the pipeline cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must be >= 0, got %d", c.Margin))
	}
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		errs = append(errs, fmt.Errorf("target resolution must be positive, got %dx%d", c.MaxWidth, c.MaxHeight))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be within 1-100, got %d", c.Quality))
	}
	if c.LogoPath == "" {
		errs = append(errs, errors.New("logo path is required"))
	}
	if c.Extension == "" {
		errs = append(errs, errors.New("extension is required"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	return errors.Join(errs...)
}

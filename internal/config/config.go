// Package config loads CLI settings from a TOML file.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Config is the top-level TOML document.
type Config struct {
	Grid GridConfig `toml:"grid"`
	CSV  CSVConfig  `toml:"csv"`
	XLSX XLSXConfig `toml:"xlsx"`
}

// GridConfig bounds the sheet. Zero means unlimited.
type GridConfig struct {
	MaxRows int `toml:"max_rows"`
	MaxCols int `toml:"max_cols"`
}

// CSVConfig controls CSV input and output.
type CSVConfig struct {
	// Delimiter is a single-character field separator.
	Delimiter string `toml:"delimiter"`
}

// XLSXConfig controls workbook input and output.
type XLSXConfig struct {
	// Sheet selects the worksheet; empty means the first one.
	Sheet string `toml:"sheet"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		CSV: CSVConfig{Delimiter: ","},
	}
}

// Load reads a TOML config file over the defaults. Unknown keys are
// rejected so typos surface instead of silently doing nothing.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("loading config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Grid.MaxRows < 0 || c.Grid.MaxCols < 0 {
		return fmt.Errorf("grid limits must not be negative")
	}
	if c.CSV.Delimiter != "" && utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	return nil
}

// DelimiterRune returns the CSV delimiter as a rune, comma if unset.
func (c CSVConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

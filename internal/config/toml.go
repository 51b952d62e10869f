// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test   TestConfig   `toml:"test"`
	Colors ColorsConfig `toml:"colors"`
	Icons  IconsConfig  `toml:"icons"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Words       *string `toml:"words"`
	Buffer      *int    `toml:"buffer"`
	Duration    *string `toml:"duration"`
	Custom      *string `toml:"custom"`
	AutoAdvance *bool   `toml:"auto-advance"`
}

// ColorsConfig maps the presentation palette.
type ColorsConfig struct {
	Accent  *string `toml:"accent"`
	OK      *string `toml:"ok"`
	Err     *string `toml:"err"`
	Pending *string `toml:"pending"`
	Muted   *string `toml:"muted"`
}

// IconsConfig maps summary icons. Values may use CSS escapes such as "\\2713".
type IconsConfig struct {
	Checkmark *string `toml:"checkmark"`
	Cross     *string `toml:"cross"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

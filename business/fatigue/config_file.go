package fatigue

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFile overlays a YAML or JSON file on DefaultConfig. Keys mirror the
// mapstructure tags of Config; zero values and absent keys keep the defaults, a
// listed tier table replaces the default table and a listed format replaces that
// format's thresholds. An empty path returns the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read scoring config %s: %w", path, err)
	}

	var patch Config
	if err := v.Unmarshal(&patch); err != nil {
		return Config{}, fmt.Errorf("decode scoring config %s: %w", path, err)
	}

	cfg = overlay(cfg, patch)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("scoring config %s: %w", path, err)
	}

	return cfg, nil
}

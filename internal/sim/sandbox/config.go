package sandbox

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a map description. A zero seed in the file is replaced by seed.
func LoadConfig(path string, seed int64) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

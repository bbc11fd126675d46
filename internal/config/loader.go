package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadStack loads the game configuration.
// Search order: customPath -> ~/.stackforever/configs/stack.yaml -> ./configs/stack.yaml -> embedded default
func LoadStack(customPath string) (StackConfig, error) {
	// Custom path errors are reported; the other locations are best-effort.
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: invalid %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("stack.yaml"); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", "stack.yaml")); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}

	return Parse(defaultStackYAML)
}

// Parse decodes YAML on top of the built-in defaults, so partial files only
// override the keys they name.
func Parse(data []byte) (StackConfig, error) {
	cfg := DefaultStackConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultStackConfig(), fmt.Errorf("config: cannot parse: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (StackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultStackConfig(), fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stackforever", "configs", filename)
}

// ApplyStackPreset modifies the config based on a difficulty preset.
func ApplyStackPreset(cfg *StackConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Glue.ContactDuration = cfg.Glue.ContactDuration * 2 / 3
		cfg.Drop.Interval += cfg.Drop.Interval / 5
	case DifficultyHard:
		cfg.Blocks.AdhesiveChance /= 2
		cfg.Settle.RequiredSteps += cfg.Settle.RequiredSteps / 3
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBubblePop loads Bubble Pop configuration.
// Search order: customPath -> ~/.bubblepop/configs/bubblepop.yaml -> ./configs/bubblepop.yaml -> embedded default
// Files are layered over the defaults, so a file only needs the keys it changes.
func LoadBubblePop(customPath string) (BubblePopConfig, error) {
	cfg := DefaultBubblePopConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("bubblepop.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := parseOver(cfg, data); ok {
				return parsed, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bubblepop.yaml")); err == nil {
		if parsed, ok := parseOver(cfg, data); ok {
			return parsed, nil
		}
	}

	// Use embedded default YAML
	if parsed, ok := parseOver(cfg, defaultBubblePopYAML); ok {
		return parsed, nil
	}
	return DefaultBubblePopConfig(), nil // Fallback to hardcoded if embed fails
}

// parseOver unmarshals data on top of base. A broken file leaves base untouched.
func parseOver(base BubblePopConfig, data []byte) (BubblePopConfig, bool) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bubblepop", "configs", filename)
}

// ApplyBubblePopPreset modifies the config based on a difficulty preset.
// Every preset caps shots per cycle at MaxShotsPerCycle. Presets differ in
// the starting board, and only hard turns on progression.
func ApplyBubblePopPreset(cfg *BubblePopConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.InitialRows = 4
	case DifficultyHard:
		cfg.Rules.InitialRows = 7
	case DifficultyNormal:
		cfg.Rules.InitialRows = 6
	}
	cfg.Rules.ShotsPerCycle = min(cfg.Rules.ShotsPerCycle, MaxShotsPerCycle)

	cfg.Difficulty.Enabled = preset == DifficultyHard
}

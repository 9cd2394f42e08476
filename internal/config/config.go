// Package config provides YAML-based configuration loading and
// difficulty management for Bubble Pop.
package config

// BubblePopConfig contains all configuration for the Bubble Pop game.
type BubblePopConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Rules      RulesConfig      `yaml:"rules"`
	Aim        AimConfig        `yaml:"aim"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the board and play area dimensions.
type BoardConfig struct {
	Rows     int     `yaml:"rows"`
	Columns  int     `yaml:"columns"`
	Diameter float64 `yaml:"diameter"`
	Spacing  float64 `yaml:"spacing"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
}

// RulesConfig defines turn, scoring and simulation parameters.
type RulesConfig struct {
	ShotsPerCycle     int     `yaml:"shots_per_cycle"`
	MinMatch          int     `yaml:"min_match"`
	PointsPerBubble   int     `yaml:"points_per_bubble"`
	DropMultiplier    int     `yaml:"drop_multiplier"`
	GameOverMargin    float64 `yaml:"game_over_margin"`
	InitialRows       int     `yaml:"initial_rows"`
	ShotStep          float64 `yaml:"shot_step"`
	PreviewStep       float64 `yaml:"preview_step"`
	PreviewMaxBounces int     `yaml:"preview_max_bounces"`
	PreviewMaxPoints  int     `yaml:"preview_max_points"`
}

// AimConfig defines how the shooter turns.
type AimConfig struct {
	CoarseStep float64 `yaml:"coarse_step"` // Degrees per left/right press
	FineStep   float64 `yaml:"fine_step"`   // Degrees per up/down press
	MaxAngle   float64 `yaml:"max_angle"`   // Limit either side of vertical
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "shots", or "none"
	MaxAt int    `yaml:"max_at"` // Score/shots at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ShotsReduction int `yaml:"shots_reduction"` // Fewer shots per cycle at max difficulty
	MinShots       int `yaml:"min_shots"`       // Floor for shots per cycle
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// MaxShotsPerCycle caps the shot budget a preset may leave in place.
const MaxShotsPerCycle = 10

// ParsePreset converts a flag value to a preset.
// Unknown values map to DifficultyNormal and false.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	default:
		return DifficultyNormal, false
	}
}

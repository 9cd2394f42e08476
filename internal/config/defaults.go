package config

import (
	_ "embed"
)

//go:embed defaults/bubblepop.yaml
var defaultBubblePopYAML []byte

// DefaultBubblePopConfig returns the default Bubble Pop configuration.
func DefaultBubblePopConfig() BubblePopConfig {
	return BubblePopConfig{
		Board: BoardConfig{
			Rows:     12,
			Columns:  8,
			Diameter: 40,
			Spacing:  2,
			Width:    400,
			Height:   600,
		},
		Rules: RulesConfig{
			ShotsPerCycle:     10,
			MinMatch:          3,
			PointsPerBubble:   10,
			DropMultiplier:    2,
			GameOverMargin:    150,
			InitialRows:       6,
			ShotStep:          10,
			PreviewStep:       20,
			PreviewMaxBounces: 3,
			PreviewMaxPoints:  50,
		},
		Aim: AimConfig{
			CoarseStep: 3,
			FineStep:   1,
			MaxAngle:   80,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "shots",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				ShotsReduction: 4,
				MinShots:       4,
			},
		},
	}
}

package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/stack.yaml
var defaultStackYAML []byte

// DefaultStackConfig returns the default Stack Forever configuration.
// It mirrors defaults/stack.yaml and is the fallback when the embed fails to parse.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		Playfield: PlayfieldConfig{
			Width:        800,
			Height:       600,
			TargetY:      150,
			SpawnY:       50,
			FloorHeight:  50,
			BottomMargin: 50,
			SideMargin:   100,
		},
		Physics: PhysicsConfig{
			Gravity:       1000,
			ForceScale:    1e6,
			Iterations:    20,
			FloorFriction: 0.9,
			AirDamping:    0.55,
		},
		Blocks: BlocksConfig{
			Density: ShapeDensityConfig{
				Rectangle:      0.005,
				Circle:         0.003,
				SmallRectangle: 0.004,
				WideRectangle:  0.007,
			},
			Size: ShapeSizeConfig{
				CircleRadius: RangeConfig{Min: 20, Max: 35},
				Rectangle: BoxSizeConfig{
					Width:  RangeConfig{Min: 60, Max: 100},
					Height: RangeConfig{Min: 25, Max: 45},
				},
				SmallRectangle: BoxSizeConfig{
					Width:  RangeConfig{Min: 40, Max: 70},
					Height: RangeConfig{Min: 20, Max: 40},
				},
				WideRectangle: BoxSizeConfig{
					Width:  RangeConfig{Min: 100, Max: 150},
					Height: RangeConfig{Min: 15, Max: 25},
				},
			},
			Normal:            MaterialConfig{Weight: 0.8, Density: 1.0, Friction: 1.0, Restitution: 1.0},
			Anchor:            MaterialConfig{Weight: 0.1, Density: 2.5, Friction: 1.3, Restitution: 0.5},
			Light:             MaterialConfig{Weight: 0.1, Density: 0.5, Friction: 0.9, Restitution: 1.5},
			Friction:          0.6,
			FrictionJitter:    RangeConfig{Min: -0.1, Max: 0.1},
			FrictionMin:       0.1,
			Restitution:       0.1,
			RestitutionJitter: RangeConfig{Min: -0.05, Max: 0.1},
			RestitutionMin:    0,
			AdhesiveChance:    0.05,
			AnchorDepth:       80,
		},
		Settle: SettleConfig{
			SpeedThreshold:   0.1,
			AngularThreshold: 0.05,
			RequiredSteps:    30,
		},
		Wind: WindConfig{
			Chance:          0.6,
			MinDelay:        3 * time.Second,
			MaxDelay:        10 * time.Second,
			MaxForce:        0.010,
			StrongThreshold: 0.006,
			CalmThreshold:   0.0001,
		},
		Drop: DropConfig{
			Interval: 5 * time.Second,
			Nudge:    20,
		},
		Glue: GlueConfig{
			Enabled:         true,
			ContactDuration: 3 * time.Second,
			TearRatio:       1.2,
			Stiffness:       400,
			Damping:         20,
		},
		Scoring: ScoringConfig{
			Point:      1,
			BonusAfter: 10,
			BonusPoint: 2,
		},
		Level: LevelConfig{
			ResetDelay: 500 * time.Millisecond,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			MaxAt:        8,
			WindCeiling:  0.020,
			DropFloor:    1500 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultStackYAML
}

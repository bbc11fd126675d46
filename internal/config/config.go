// Package config provides YAML-based game configuration loading and
// difficulty management for Stack Forever.
package config

import (
	"errors"
	"fmt"
	"time"
)

// StackConfig contains all configuration for the stacking game.
type StackConfig struct {
	Playfield  PlayfieldConfig  `yaml:"playfield"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Blocks     BlocksConfig     `yaml:"blocks"`
	Settle     SettleConfig     `yaml:"settle"`
	Wind       WindConfig       `yaml:"wind"`
	Drop       DropConfig       `yaml:"drop"`
	Glue       GlueConfig       `yaml:"glue"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Level      LevelConfig      `yaml:"level"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PlayfieldConfig defines the playfield geometry in reference units.
type PlayfieldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	TargetY      float64 `yaml:"target_y"`      // Target height line, measured from the top
	SpawnY       float64 `yaml:"spawn_y"`       // Spawn point height; x is always the center
	FloorHeight  float64 `yaml:"floor_height"`  // Thickness of the static floor at the bottom
	BottomMargin float64 `yaml:"bottom_margin"` // Distance below the bottom edge that ends the game
	SideMargin   float64 `yaml:"side_margin"`   // Distance past either side that ends the game
}

// PhysicsConfig defines parameters handed to the physics engine.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`        // Downward acceleration, units/s^2
	ForceScale    float64 `yaml:"force_scale"`    // Converts reference force units to engine units
	Iterations    int     `yaml:"iterations"`     // Solver iterations per step
	FloorFriction float64 `yaml:"floor_friction"` // Friction of the floor body
	AirDamping    float64 `yaml:"air_damping"`    // Fraction of velocity bodies keep per second
}

// MaterialConfig defines a material profile drawn for each block.
type MaterialConfig struct {
	Weight      float64 `yaml:"weight"`      // Relative draw weight
	Density     float64 `yaml:"density"`     // Density multiplier
	Friction    float64 `yaml:"friction"`    // Friction multiplier
	Restitution float64 `yaml:"restitution"` // Restitution multiplier
}

// ShapeDensityConfig holds the base density of every shape kind.
type ShapeDensityConfig struct {
	Rectangle      float64 `yaml:"rectangle"`
	Circle         float64 `yaml:"circle"`
	SmallRectangle float64 `yaml:"small_rectangle"`
	WideRectangle  float64 `yaml:"wide_rectangle"`
}

// RangeConfig is a uniform draw from [Min, Max).
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// BoxSizeConfig holds the width and height ranges of a box shape.
type BoxSizeConfig struct {
	Width  RangeConfig `yaml:"width"`
	Height RangeConfig `yaml:"height"`
}

// ShapeSizeConfig holds the size ranges of every shape kind.
type ShapeSizeConfig struct {
	CircleRadius   RangeConfig   `yaml:"circle_radius"`
	Rectangle      BoxSizeConfig `yaml:"rectangle"`
	SmallRectangle BoxSizeConfig `yaml:"small_rectangle"`
	WideRectangle  BoxSizeConfig `yaml:"wide_rectangle"`
}

// BlocksConfig defines how the spawner builds blocks.
type BlocksConfig struct {
	Density           ShapeDensityConfig `yaml:"density"`
	Size              ShapeSizeConfig    `yaml:"size"`
	Normal            MaterialConfig     `yaml:"normal"`
	Anchor            MaterialConfig     `yaml:"anchor"`
	Light             MaterialConfig     `yaml:"light"`
	Friction          float64            `yaml:"friction"`           // Base friction before jitter
	FrictionJitter    RangeConfig        `yaml:"friction_jitter"`    // Added to the base friction
	FrictionMin       float64            `yaml:"friction_min"`       // Friction floor after jitter
	Restitution       float64            `yaml:"restitution"`        // Base restitution before jitter
	RestitutionJitter RangeConfig        `yaml:"restitution_jitter"` // Added to the base restitution
	RestitutionMin    float64            `yaml:"restitution_min"`    // Restitution floor after jitter
	AdhesiveChance    float64            `yaml:"adhesive_chance"`    // Chance a block is adhesive
	AnchorDepth       float64            `yaml:"anchor_depth"`       // Adhesive blocks anchor this close to the bottom
}

// SettleConfig defines when a falling block counts as resting.
type SettleConfig struct {
	SpeedThreshold   float64 `yaml:"speed_threshold"`   // Linear speed per step
	AngularThreshold float64 `yaml:"angular_threshold"` // Angular speed per step
	RequiredSteps    int     `yaml:"required_steps"`    // Consecutive quiet steps
}

// WindConfig defines the wind generator.
type WindConfig struct {
	Chance          float64       `yaml:"chance"`           // Probability that a re-roll is not calm
	MinDelay        time.Duration `yaml:"min_delay"`        // Shortest time between re-rolls
	MaxDelay        time.Duration `yaml:"max_delay"`        // Longest time between re-rolls
	MaxForce        float64       `yaml:"max_force"`        // Max magnitude on level 1
	StrongThreshold float64       `yaml:"strong_threshold"` // Magnitude at which wind counts as strong
	CalmThreshold   float64       `yaml:"calm_threshold"`   // Magnitudes below this are not applied
}

// DropConfig defines the automatic drop timer.
type DropConfig struct {
	Interval time.Duration `yaml:"interval"` // Auto-drop delay on level 1
	Nudge    float64       `yaml:"nudge"`    // Horizontal step for keyboard nudges
}

// GlueConfig defines the adhesion subsystem.
type GlueConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ContactDuration time.Duration `yaml:"contact_duration"` // Contact time before two blocks glue
	TearRatio       float64       `yaml:"tear_ratio"`       // Stretch beyond rest length that tears a link
	Stiffness       float64       `yaml:"stiffness"`        // Spring stiffness handed to the engine
	Damping         float64       `yaml:"damping"`          // Spring damping handed to the engine
}

// ScoringConfig defines points awarded per landed block.
type ScoringConfig struct {
	Point      float64 `yaml:"point"`       // Points per landed block
	BonusAfter float64 `yaml:"bonus_after"` // Score at which the bonus applies; 0 disables
	BonusPoint float64 `yaml:"bonus_point"` // Points per landed block past the milestone
}

// LevelConfig defines level transitions.
type LevelConfig struct {
	ResetDelay time.Duration `yaml:"reset_delay"` // Hold between clearing and the next level
}

// DifficultyConfig defines the per-level difficulty escalation.
type DifficultyConfig struct {
	Enabled      bool          `yaml:"enabled"`
	InitialLevel float64       `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	MaxAt        int           `yaml:"max_at"`        // Levels cleared at which ceilings are reached
	WindCeiling  float64       `yaml:"wind_ceiling"`  // Max wind magnitude at full difficulty
	DropFloor    time.Duration `yaml:"drop_floor"`    // Shortest auto-drop interval
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// Validate reports every impossible value in the config.
func (c StackConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Playfield.Width > 0 && c.Playfield.Height > 0, "playfield: size must be positive")
	check(c.Playfield.TargetY > c.Playfield.SpawnY, "playfield: target_y must be below spawn_y")
	check(c.Playfield.TargetY < c.Playfield.Height-c.Playfield.FloorHeight, "playfield: target_y must be above the floor")
	check(c.Physics.ForceScale > 0, "physics: force_scale must be positive")
	check(c.Physics.AirDamping > 0 && c.Physics.AirDamping <= 1, "physics: air_damping must be within (0, 1]")
	sizes := c.Blocks.Size
	for name, r := range map[string]RangeConfig{
		"circle_radius":          sizes.CircleRadius,
		"rectangle.width":        sizes.Rectangle.Width,
		"rectangle.height":       sizes.Rectangle.Height,
		"small_rectangle.width":  sizes.SmallRectangle.Width,
		"small_rectangle.height": sizes.SmallRectangle.Height,
		"wide_rectangle.width":   sizes.WideRectangle.Width,
		"wide_rectangle.height":  sizes.WideRectangle.Height,
	} {
		check(r.Min > 0 && r.Max >= r.Min, "blocks: size.%s must be positive and ordered", name)
	}
	check(c.Blocks.FrictionJitter.Max >= c.Blocks.FrictionJitter.Min, "blocks: friction_jitter must be ordered")
	check(c.Blocks.RestitutionJitter.Max >= c.Blocks.RestitutionJitter.Min, "blocks: restitution_jitter must be ordered")
	check(c.Blocks.Normal.Weight+c.Blocks.Anchor.Weight+c.Blocks.Light.Weight > 0, "blocks: material weights must not all be zero")
	check(c.Blocks.AdhesiveChance >= 0 && c.Blocks.AdhesiveChance <= 1, "blocks: adhesive_chance must be within [0, 1]")
	check(c.Settle.RequiredSteps > 0, "settle: required_steps must be positive")
	check(c.Wind.Chance >= 0 && c.Wind.Chance <= 1, "wind: chance must be within [0, 1]")
	check(c.Wind.MinDelay > 0 && c.Wind.MaxDelay >= c.Wind.MinDelay, "wind: delays must be positive and ordered")
	check(c.Wind.MaxForce >= 0, "wind: max_force must not be negative")
	check(c.Drop.Interval > 0, "drop: interval must be positive")
	check(c.Glue.TearRatio > 1, "glue: tear_ratio must be greater than 1")
	check(c.Glue.ContactDuration > 0, "glue: contact_duration must be positive")
	check(c.Level.ResetDelay >= 0, "level: reset_delay must not be negative")
	check(c.Difficulty.WindCeiling >= c.Wind.MaxForce, "difficulty: wind_ceiling must be at least wind.max_force")
	check(c.Difficulty.DropFloor > 0 && c.Difficulty.DropFloor <= c.Drop.Interval, "difficulty: drop_floor must be within (0, drop.interval]")

	return errors.Join(errs...)
}

package config

import (
	"math"
	"time"
)

// Escalation calculates per-level difficulty parameters. Progress runs from
// the preset's initial level to 1.0 as levels are cleared, and every derived
// value is clamped to its configured bound.
type Escalation struct {
	cfg      DifficultyConfig
	baseWind float64
	baseDrop time.Duration
}

// NewEscalation creates an escalation from the difficulty section and the
// level-1 wind and drop settings.
func NewEscalation(cfg DifficultyConfig, baseWind float64, baseDrop time.Duration) *Escalation {
	cfg.InitialLevel = clampF(cfg.InitialLevel, 0.0, 1.0)
	return &Escalation{
		cfg:      cfg,
		baseWind: baseWind,
		baseDrop: baseDrop,
	}
}

// IsEnabled returns whether difficulty progression is active.
func (e *Escalation) IsEnabled() bool {
	return e.cfg.Enabled
}

// Progress returns the difficulty level (0.0 to 1.0) for a 1-based game level.
func (e *Escalation) Progress(level int) float64 {
	if !e.cfg.Enabled {
		return e.cfg.InitialLevel
	}

	maxAt := float64(e.cfg.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	cleared := float64(level - 1)
	progress := clampF(cleared/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return e.cfg.InitialLevel + progress*(1.0-e.cfg.InitialLevel)
}

// MaxWind returns the wind magnitude bound for a level.
func (e *Escalation) MaxWind(level int) float64 {
	p := e.Progress(level)
	ceiling := math.Max(e.cfg.WindCeiling, e.baseWind)
	if p >= 1 {
		return ceiling
	}
	return clampF(e.baseWind+p*(ceiling-e.baseWind), 0, ceiling)
}

// DropInterval returns the auto-drop delay for a level.
func (e *Escalation) DropInterval(level int) time.Duration {
	p := e.Progress(level)
	floor := e.cfg.DropFloor
	if floor <= 0 || floor > e.baseDrop {
		floor = e.baseDrop
	}
	span := float64(e.baseDrop - floor)
	d := e.baseDrop - time.Duration(p*span)
	if d < floor {
		d = floor
	}
	return d
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

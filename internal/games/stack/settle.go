package stack

import "github.com/vovakirdan/stack-forever/internal/config"

// SettleDetector decides when a falling block has come to rest.
type SettleDetector struct {
	SpeedThreshold   float64
	AngularThreshold float64
	Required         int
}

// NewSettleDetector builds a detector from config.
func NewSettleDetector(cfg config.SettleConfig) SettleDetector {
	return SettleDetector{
		SpeedThreshold:   cfg.SpeedThreshold,
		AngularThreshold: cfg.AngularThreshold,
		Required:         cfg.RequiredSteps,
	}
}

// Observe records one step for a settling block. It returns true on the
// step the block becomes resting; blocks in any other phase are ignored.
func (d SettleDetector) Observe(b *Block, speed, angular float64) bool {
	if b.Phase != PhaseSettling {
		return false
	}
	if speed < d.SpeedThreshold && angular < d.AngularThreshold {
		b.SettleStreak++
	} else {
		b.SettleStreak = 0
	}
	if b.SettleStreak < d.Required {
		return false
	}
	b.Phase = PhaseResting
	b.SettleStreak = 0
	return true
}

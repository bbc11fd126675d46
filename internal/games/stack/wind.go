package stack

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/stack-forever/internal/config"
)

// Wind samples the horizontal wind force and its re-roll delay.
type Wind struct {
	cfg config.WindConfig
}

// NewWind creates a wind generator.
func NewWind(cfg config.WindConfig) Wind {
	return Wind{cfg: cfg}
}

// Roll draws a new wind value within [-max, max]. Calm periods return 0.
func (w Wind) Roll(rng *rand.Rand, max float64) float64 {
	if rng.Float64() >= w.cfg.Chance {
		return 0
	}
	v := (rng.Float64()*2 - 1) * max
	return math.Max(-max, math.Min(max, v))
}

// NextDelay draws the time until the next re-roll.
func (w Wind) NextDelay(rng *rand.Rand) time.Duration {
	span := w.cfg.MaxDelay - w.cfg.MinDelay
	if span <= 0 {
		return w.cfg.MinDelay
	}
	return w.cfg.MinDelay + time.Duration(rng.Int63n(int64(span)+1))
}

// Strong reports whether a wind value lets the player hold blocks and tears glue.
func (w Wind) Strong(v float64) bool {
	return math.Abs(v) >= w.cfg.StrongThreshold
}

// Calm reports whether a wind value is too small to apply.
func (w Wind) Calm(v float64) bool {
	return math.Abs(v) < w.cfg.CalmThreshold
}

// Label formats a wind value for the HUD.
func (w Wind) Label(v float64) string {
	if w.Calm(v) {
		return "Calm"
	}
	arrow := ">>"
	if v < 0 {
		arrow = "<<"
	}
	label := fmt.Sprintf("%s (%.1f)", arrow, math.Abs(v)*1000)
	if w.Strong(v) {
		label += " STRONG!"
	}
	return label
}

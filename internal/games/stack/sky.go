package stack

import (
	"fmt"
	"math"

	"github.com/vovakirdan/stack-forever/internal/core"
)

// Sky gradient stops.
var (
	SkyBlue   = core.RGB{R: 135, G: 206, B: 235}
	SkyOrange = core.RGB{R: 255, G: 165, B: 0}
	SkyPurple = core.RGB{R: 128, G: 0, B: 128}
	SkyDusk   = core.RGB{R: 100, G: 0, B: 0}
)

// SkyProgress normalizes a height extremum to [0, 1]. One is reached 50
// units below the target line.
func SkyProgress(highestY, height, targetY float64) float64 {
	span := height - targetY - 50
	if span <= 0 {
		return 0
	}
	return core.ClampF((height-highestY)/span, 0, 1)
}

// SkyColor maps gradient progress to the backdrop color.
func SkyColor(progress float64) core.RGB {
	switch {
	case progress < 0.25:
		return SkyBlue
	case progress < 0.5:
		return blend(SkyBlue, SkyOrange, (progress-0.25)*4)
	case progress < 0.75:
		return blend(SkyOrange, SkyPurple, (progress-0.5)*4)
	default:
		return blend(SkyPurple, SkyDusk, (progress-0.75)*4)
	}
}

// Hex formats a color as #rrggbb for lipgloss.
func Hex(c core.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func blend(a, b core.RGB, t float64) core.RGB {
	t = core.ClampF(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(core.Lerp(float64(x), float64(y), t)))
	}
	return core.RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

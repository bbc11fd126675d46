// Package stack implements Stack Forever, a physics stacking game.
//
// Blocks appear at a spawn point, are dropped by the player or automatically,
// and must be stacked until a resting block reaches the target line. Rigid
// body dynamics come from a physics.World; this package owns the block
// lifecycle, scoring, wind, glue and level transitions.
package stack

import (
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
)

// Shape is the size family of a block.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeCircle
	ShapeSmallRectangle
	ShapeWideRectangle
)

// Shapes lists every shape kind in draw order.
var Shapes = []Shape{ShapeRectangle, ShapeCircle, ShapeSmallRectangle, ShapeWideRectangle}

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	case ShapeSmallRectangle:
		return "small_rectangle"
	case ShapeWideRectangle:
		return "wide_rectangle"
	default:
		return "unknown"
	}
}

// Material is the density/friction/restitution profile of a block.
type Material int

const (
	MaterialNormal Material = iota
	MaterialAnchor          // Heavy and grippy
	MaterialLight           // Light and bouncy
)

func (m Material) String() string {
	switch m {
	case MaterialNormal:
		return "normal"
	case MaterialAnchor:
		return "anchor"
	case MaterialLight:
		return "light"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle stage of a block.
type Phase int

const (
	PhasePending  Phase = iota // Waiting at the spawn point, static
	PhaseSettling              // Dropped and falling
	PhaseResting               // Confirmed at rest, still simulated
	PhaseRemoved               // Gone from the world
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSettling:
		return "settling"
	case PhaseResting:
		return "resting"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Block is the game metadata for one engine body.
type Block struct {
	ID           physics.BodyID
	Shape        Shape
	Material     Material
	Width        float64 // Footprint width; circles store the diameter
	Height       float64 // Footprint height; circles store the diameter
	Density      float64
	Friction     float64
	Restitution  float64
	Color        core.Color
	Phase        Phase
	SettleStreak int
	Adhesive     bool
	Anchored     bool
	Held         bool
}

// Dropped reports whether the block has left the spawn point and is still in play.
func (b *Block) Dropped() bool {
	return b.Phase == PhaseSettling || b.Phase == PhaseResting
}

// Top returns the y of the block's top edge for a given center.
func (b *Block) Top(center core.Vec) float64 {
	return center.Y - b.Height/2
}

// bodySpec converts the block into an engine body description.
func (b *Block) bodySpec(pos core.Vec) physics.BodySpec {
	kind := physics.ShapeBox
	if b.Shape == ShapeCircle {
		kind = physics.ShapeCircle
	}
	return physics.BodySpec{
		Shape:       kind,
		Position:    pos,
		Width:       b.Width,
		Height:      b.Height,
		Density:     b.Density,
		Friction:    b.Friction,
		Restitution: b.Restitution,
		Static:      b.Phase == PhasePending,
	}
}

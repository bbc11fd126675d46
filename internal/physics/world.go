// Package physics defines the adapter between the game and a rigid-body
// engine. The game never touches engine types; it addresses bodies and
// constraints by opaque IDs and keeps its own metadata in side tables.
package physics

import (
	"time"

	"github.com/vovakirdan/stack-forever/internal/core"
)

// BodyID identifies a body inside a World. The zero value is never issued.
type BodyID uint64

// LinkID identifies a constraint inside a World. The zero value is never issued.
type LinkID uint64

// ShapeKind selects the collision shape of a body.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// BodySpec describes a body to create.
type BodySpec struct {
	Shape       ShapeKind
	Position    core.Vec // Center of the body
	Width       float64  // Box width, or circle diameter
	Height      float64  // Box height, or circle diameter
	Density     float64
	Friction    float64
	Restitution float64
	Static      bool
}

// Pair is an unordered pair of bodies with A < B.
type Pair struct {
	A, B BodyID
}

// MakePair normalizes two IDs into a Pair.
func MakePair(a, b BodyID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// World is the physics engine as seen by the game.
//
// Speeds are reported in reference units per step: distance travelled and
// radians turned during the most recent Step. Missing IDs are ignored by
// mutators and report zero values from queries.
type World interface {
	// CreateBody adds a body and returns its handle.
	CreateBody(spec BodySpec) BodyID

	// RemoveBody removes a body together with its shapes and constraints.
	RemoveBody(id BodyID)

	// Exists reports whether the body is still in the world.
	Exists(id BodyID) bool

	// SetStatic toggles a body between static and dynamic.
	SetStatic(id BodyID, static bool)

	// IsStatic reports whether the body is currently static.
	IsStatic(id BodyID) bool

	// MoveTo teleports a body to a new center position.
	MoveTo(id BodyID, pos core.Vec)

	// ApplyForce applies a force in reference units at a world point.
	ApplyForce(id BodyID, point, force core.Vec)

	// Position returns the body's center.
	Position(id BodyID) core.Vec

	// Speed returns the linear speed per step.
	Speed(id BodyID) float64

	// AngularSpeed returns the absolute angular speed per step.
	AngularSpeed(id BodyID) float64

	// Contacts returns every touching pair where both bodies are dynamic.
	Contacts() []Pair

	// BodyAt returns the body under a point, if any.
	BodyAt(point core.Vec) (BodyID, bool)

	// Link joins two bodies with a spring of the given rest length.
	Link(a, b BodyID, restLength float64) LinkID

	// Anchor pins a body to the world at a world point.
	Anchor(id BodyID, point core.Vec) LinkID

	// Unlink removes a constraint.
	Unlink(id LinkID)

	// Step advances the simulation.
	Step(dt time.Duration)
}

// Package physicstest provides a scripted in-memory physics.World.
//
// Bodies move only by the per-step velocity a test assigns; forces are
// recorded rather than integrated and contacts are declared explicitly. This
// keeps state machine tests exact and independent of any engine.
package physicstest

import (
	"math"
	"sort"
	"time"

	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
)

// Body is the scripted state of one body.
type Body struct {
	Spec     physics.BodySpec
	Pos      core.Vec
	Vel      core.Vec // Displacement per step while dynamic
	Angular  float64  // Angular speed per step
	Static   bool
	Force    core.Vec // Sum of forces applied since the last ClearForces
	Anchored bool
}

// Link is a recorded constraint.
type Link struct {
	A, B       physics.BodyID // B is zero for anchors
	RestLength float64
	Point      core.Vec // Anchor point for anchors
}

// World implements physics.World.
type World struct {
	Bodies   map[physics.BodyID]*Body
	Links    map[physics.LinkID]*Link
	Steps    int
	contacts map[physics.Pair]bool
	nextBody physics.BodyID
	nextLink physics.LinkID
}

var _ physics.World = (*World)(nil)

// New creates an empty world.
func New() *World {
	return &World{
		Bodies:   make(map[physics.BodyID]*Body),
		Links:    make(map[physics.LinkID]*Link),
		contacts: make(map[physics.Pair]bool),
	}
}

// CreateBody adds a body at rest.
func (w *World) CreateBody(spec physics.BodySpec) physics.BodyID {
	w.nextBody++
	id := w.nextBody
	w.Bodies[id] = &Body{Spec: spec, Pos: spec.Position, Static: spec.Static}
	return id
}

// RemoveBody drops a body, its contacts and its constraints.
func (w *World) RemoveBody(id physics.BodyID) {
	delete(w.Bodies, id)
	for p := range w.contacts {
		if p.A == id || p.B == id {
			delete(w.contacts, p)
		}
	}
	for lid, l := range w.Links {
		if l.A == id || l.B == id {
			delete(w.Links, lid)
		}
	}
}

// Exists reports whether the body is present.
func (w *World) Exists(id physics.BodyID) bool {
	_, ok := w.Bodies[id]
	return ok
}

// SetStatic toggles a body. Static bodies stop moving.
func (w *World) SetStatic(id physics.BodyID, static bool) {
	if b, ok := w.Bodies[id]; ok {
		b.Static = static
		if static {
			b.Vel = core.Vec{}
			b.Angular = 0
		}
	}
}

// IsStatic reports whether the body is static.
func (w *World) IsStatic(id physics.BodyID) bool {
	if b, ok := w.Bodies[id]; ok {
		return b.Static
	}
	return false
}

// MoveTo teleports a body.
func (w *World) MoveTo(id physics.BodyID, pos core.Vec) {
	if b, ok := w.Bodies[id]; ok {
		b.Pos = pos
	}
}

// ApplyForce accumulates a force on a body.
func (w *World) ApplyForce(id physics.BodyID, _, force core.Vec) {
	if b, ok := w.Bodies[id]; ok {
		b.Force = b.Force.Add(force)
	}
}

// Position returns a body's center.
func (w *World) Position(id physics.BodyID) core.Vec {
	if b, ok := w.Bodies[id]; ok {
		return b.Pos
	}
	return core.Vec{}
}

// Speed returns the scripted per-step speed.
func (w *World) Speed(id physics.BodyID) float64 {
	if b, ok := w.Bodies[id]; ok && !b.Static {
		return b.Vel.Len()
	}
	return 0
}

// AngularSpeed returns the scripted per-step angular speed.
func (w *World) AngularSpeed(id physics.BodyID) float64 {
	if b, ok := w.Bodies[id]; ok && !b.Static {
		return math.Abs(b.Angular)
	}
	return 0
}

// Contacts returns declared contacts where both bodies are dynamic, sorted.
func (w *World) Contacts() []physics.Pair {
	var out []physics.Pair
	for p := range w.contacts {
		a, okA := w.Bodies[p.A]
		b, okB := w.Bodies[p.B]
		if okA && okB && !a.Static && !b.Static {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// BodyAt returns the lowest-ID body whose footprint contains the point.
func (w *World) BodyAt(point core.Vec) (physics.BodyID, bool) {
	ids := make([]physics.BodyID, 0, len(w.Bodies))
	for id := range w.Bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		b := w.Bodies[id]
		hw, hh := b.Spec.Width/2, b.Spec.Height/2
		if math.Abs(point.X-b.Pos.X) <= hw && math.Abs(point.Y-b.Pos.Y) <= hh {
			return id, true
		}
	}
	return 0, false
}

// Link records a spring between two bodies.
func (w *World) Link(a, b physics.BodyID, restLength float64) physics.LinkID {
	if !w.Exists(a) || !w.Exists(b) {
		return 0
	}
	w.nextLink++
	w.Links[w.nextLink] = &Link{A: a, B: b, RestLength: restLength}
	return w.nextLink
}

// Anchor records a pin to the world.
func (w *World) Anchor(id physics.BodyID, point core.Vec) physics.LinkID {
	b, ok := w.Bodies[id]
	if !ok {
		return 0
	}
	b.Anchored = true
	w.nextLink++
	w.Links[w.nextLink] = &Link{A: id, Point: point}
	return w.nextLink
}

// Unlink removes a constraint.
func (w *World) Unlink(id physics.LinkID) {
	delete(w.Links, id)
}

// Step moves every dynamic, unanchored body by its scripted velocity.
func (w *World) Step(time.Duration) {
	w.Steps++
	for _, b := range w.Bodies {
		if b.Static || b.Anchored {
			continue
		}
		b.Pos = b.Pos.Add(b.Vel)
	}
}

// Touch declares that two bodies are in contact.
func (w *World) Touch(a, b physics.BodyID) {
	w.contacts[physics.MakePair(a, b)] = true
}

// Separate removes a declared contact.
func (w *World) Separate(a, b physics.BodyID) {
	delete(w.contacts, physics.MakePair(a, b))
}

// SetMotion scripts a body's per-step velocity and angular speed.
func (w *World) SetMotion(id physics.BodyID, vel core.Vec, angular float64) {
	if b, ok := w.Bodies[id]; ok {
		b.Vel = vel
		b.Angular = angular
	}
}

// ClearForces resets every recorded force.
func (w *World) ClearForces() {
	for _, b := range w.Bodies {
		b.Force = core.Vec{}
	}
}

// Dynamic returns the IDs of all dynamic bodies, sorted.
func (w *World) Dynamic() []physics.BodyID {
	var ids []physics.BodyID
	for id, b := range w.Bodies {
		if !b.Static {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Package chipmunk implements physics.World on top of the Chipmunk2D port
// github.com/jakecoffman/cp.
package chipmunk

import (
	"math"
	"sort"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
)

const defaultStep = time.Second / 60

// Options configures a new World.
type Options struct {
	Gravity    float64 // Downward acceleration in units/s^2; y grows downward
	Iterations int     // Solver iterations per step
	ForceScale float64 // Multiplier from reference force units to engine units
	Stiffness  float64 // Glue spring stiffness
	Damping    float64 // Glue spring damping
	AirDamping float64 // Fraction of velocity kept per second; 0 keeps all
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	links  map[physics.LinkID]bool
}

type linkInfo struct {
	constraint *cp.Constraint
	a, b       physics.BodyID
}

// World is a cp.Space with ID bookkeeping.
type World struct {
	space    *cp.Space
	opts     Options
	bodies   map[physics.BodyID]*bodyInfo
	byBody   map[*cp.Body]physics.BodyID
	links    map[physics.LinkID]*linkInfo
	lastStep float64
	nextBody physics.BodyID
	nextLink physics.LinkID
}

var _ physics.World = (*World)(nil)

// New creates an empty space.
func New(opts Options) *World {
	if opts.Iterations <= 0 {
		opts.Iterations = 10
	}
	if opts.ForceScale <= 0 {
		opts.ForceScale = 1
	}

	space := cp.NewSpace()
	space.Iterations = uint(opts.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})
	if opts.AirDamping > 0 && opts.AirDamping < 1 {
		space.SetDamping(opts.AirDamping)
	}

	return &World{
		space:    space,
		opts:     opts,
		bodies:   make(map[physics.BodyID]*bodyInfo),
		byBody:   make(map[*cp.Body]physics.BodyID),
		links:    make(map[physics.LinkID]*linkInfo),
		lastStep: defaultStep.Seconds(),
	}
}

// CreateBody adds a body with a single shape. Mass comes from the shape
// density so that a static body regains its mass when made dynamic.
func (w *World) CreateBody(spec physics.BodySpec) physics.BodyID {
	body := w.space.AddBody(cp.NewBody(0, 0))
	body.SetPosition(cp.Vector{X: spec.Position.X, Y: spec.Position.Y})

	var shape *cp.Shape
	switch spec.Shape {
	case physics.ShapeCircle:
		shape = cp.NewCircle(body, spec.Width/2, cp.Vector{})
	default:
		shape = cp.NewBox(body, spec.Width, spec.Height, 0)
	}
	w.space.AddShape(shape)
	if spec.Density > 0 {
		shape.SetDensity(spec.Density)
	}
	shape.SetFriction(spec.Friction)
	shape.SetElasticity(spec.Restitution)

	if spec.Static {
		body.SetType(cp.BODY_STATIC)
	}

	w.nextBody++
	id := w.nextBody
	w.bodies[id] = &bodyInfo{
		body:   body,
		shapes: []*cp.Shape{shape},
		links:  make(map[physics.LinkID]bool),
	}
	w.byBody[body] = id
	return id
}

// RemoveBody removes a body, its shapes and every constraint on it.
func (w *World) RemoveBody(id physics.BodyID) {
	info, ok := w.bodies[id]
	if !ok {
		return
	}
	for lid := range info.links {
		w.Unlink(lid)
	}
	for _, shape := range info.shapes {
		w.space.RemoveShape(shape)
	}
	w.space.RemoveBody(info.body)
	delete(w.byBody, info.body)
	delete(w.bodies, id)
}

// Exists reports whether the body is in the space.
func (w *World) Exists(id physics.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

// SetStatic toggles the body type.
func (w *World) SetStatic(id physics.BodyID, static bool) {
	info, ok := w.bodies[id]
	if !ok || w.isStatic(info) == static {
		return
	}
	if static {
		info.body.SetType(cp.BODY_STATIC)
	} else {
		info.body.SetType(cp.BODY_DYNAMIC)
		info.body.SetVelocity(0, 0)
		info.body.SetAngularVelocity(0)
	}
	w.reindex(info)
}

// IsStatic reports whether the body is static.
func (w *World) IsStatic(id physics.BodyID) bool {
	info, ok := w.bodies[id]
	return ok && w.isStatic(info)
}

func (w *World) isStatic(info *bodyInfo) bool {
	return info.body.GetType() == cp.BODY_STATIC
}

// MoveTo teleports the body.
func (w *World) MoveTo(id physics.BodyID, pos core.Vec) {
	info, ok := w.bodies[id]
	if !ok {
		return
	}
	info.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	if w.isStatic(info) {
		w.reindex(info)
	}
}

// reindex refreshes the bounding boxes of a body's shapes. The static
// index is only rebuilt on insert, so the shapes are removed and re-added.
func (w *World) reindex(info *bodyInfo) {
	for _, shape := range info.shapes {
		w.space.RemoveShape(shape)
		w.space.AddShape(shape)
	}
}

// ApplyForce applies a scaled force at a world point.
func (w *World) ApplyForce(id physics.BodyID, point, force core.Vec) {
	info, ok := w.bodies[id]
	if !ok || w.isStatic(info) {
		return
	}
	f := cp.Vector{X: force.X * w.opts.ForceScale, Y: force.Y * w.opts.ForceScale}
	info.body.ApplyForceAtWorldPoint(f, cp.Vector{X: point.X, Y: point.Y})
}

// Position returns the body's center.
func (w *World) Position(id physics.BodyID) core.Vec {
	info, ok := w.bodies[id]
	if !ok {
		return core.Vec{}
	}
	p := info.body.Position()
	return core.V(p.X, p.Y)
}

// Speed returns the distance covered per step at the current velocity.
func (w *World) Speed(id physics.BodyID) float64 {
	info, ok := w.bodies[id]
	if !ok || w.isStatic(info) {
		return 0
	}
	return info.body.Velocity().Length() * w.lastStep
}

// AngularSpeed returns the rotation per step at the current angular velocity.
func (w *World) AngularSpeed(id physics.BodyID) float64 {
	info, ok := w.bodies[id]
	if !ok || w.isStatic(info) {
		return 0
	}
	return math.Abs(info.body.AngularVelocity()) * w.lastStep
}

// Contacts collects touching dynamic pairs from every body's arbiters.
func (w *World) Contacts() []physics.Pair {
	seen := make(map[physics.Pair]bool)
	for id, info := range w.bodies {
		if w.isStatic(info) {
			continue
		}
		info.body.EachArbiter(func(arb *cp.Arbiter) {
			if arb.Count() == 0 {
				return
			}
			a, b := arb.Bodies()
			other := b
			if other == info.body {
				other = a
			}
			oid, ok := w.byBody[other]
			if !ok || oid == id || w.isStatic(w.bodies[oid]) {
				return
			}
			seen[physics.MakePair(id, oid)] = true
		})
	}

	out := make([]physics.Pair, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// BodyAt returns the body whose shape contains the point.
func (w *World) BodyAt(point core.Vec) (physics.BodyID, bool) {
	hit := w.space.PointQueryNearest(cp.Vector{X: point.X, Y: point.Y}, 0, cp.SHAPE_FILTER_ALL)
	if hit == nil || hit.Shape == nil {
		return 0, false
	}
	id, ok := w.byBody[hit.Shape.Body()]
	return id, ok
}

// Link joins two bodies with a damped spring between their centers.
func (w *World) Link(a, b physics.BodyID, restLength float64) physics.LinkID {
	ia, okA := w.bodies[a]
	ib, okB := w.bodies[b]
	if !okA || !okB || a == b {
		return 0
	}
	spring := cp.NewDampedSpring(ia.body, ib.body, cp.Vector{}, cp.Vector{}, restLength, w.opts.Stiffness, w.opts.Damping)
	return w.addLink(w.space.AddConstraint(spring), a, b)
}

// Anchor pins a body to the static body at a world point.
func (w *World) Anchor(id physics.BodyID, point core.Vec) physics.LinkID {
	info, ok := w.bodies[id]
	if !ok {
		return 0
	}
	pivot := cp.NewPivotJoint(info.body, w.space.StaticBody, cp.Vector{X: point.X, Y: point.Y})
	return w.addLink(w.space.AddConstraint(pivot), id, 0)
}

func (w *World) addLink(c *cp.Constraint, a, b physics.BodyID) physics.LinkID {
	w.nextLink++
	lid := w.nextLink
	w.links[lid] = &linkInfo{constraint: c, a: a, b: b}
	for _, id := range []physics.BodyID{a, b} {
		if info, ok := w.bodies[id]; ok {
			info.links[lid] = true
		}
	}
	return lid
}

// Unlink removes a constraint.
func (w *World) Unlink(id physics.LinkID) {
	l, ok := w.links[id]
	if !ok {
		return
	}
	w.space.RemoveConstraint(l.constraint)
	for _, bid := range []physics.BodyID{l.a, l.b} {
		if info, ok := w.bodies[bid]; ok {
			delete(info.links, id)
		}
	}
	delete(w.links, id)
}

// Step advances the space by dt.
func (w *World) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	w.lastStep = dt.Seconds()
	w.space.Step(w.lastStep)
}

// Angle returns the body's rotation in radians.
func (w *World) Angle(id physics.BodyID) float64 {
	info, ok := w.bodies[id]
	if !ok {
		return 0
	}
	return info.body.Angle()
}

// Bodies returns the number of bodies in the space.
func (w *World) Bodies() int {
	return len(w.bodies)
}

package stack

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
	"github.com/vovakirdan/stack-forever/internal/physics/chipmunk"
)

// HUDRows is the number of screen rows above the playfield.
const HUDRows = 1

// particleLife is how long a burst particle stays on screen.
const particleLife = time.Second

// WorldFactory builds the physics world for a new run.
type WorldFactory func(cfg config.StackConfig) physics.World

// ChipmunkWorld builds a Chipmunk2D world from config.
func ChipmunkWorld(cfg config.StackConfig) physics.World {
	return chipmunk.New(chipmunk.Options{
		Gravity:    cfg.Physics.Gravity,
		Iterations: cfg.Physics.Iterations,
		ForceScale: cfg.Physics.ForceScale,
		Stiffness:  cfg.Glue.Stiffness,
		Damping:    cfg.Glue.Damping,
		AirDamping: cfg.Physics.AirDamping,
	})
}

// Option customizes a Game.
type Option func(*Game)

// WithLogger sets the logger handed to every engine.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithWorld sets the physics world factory.
func WithWorld(f WorldFactory) Option {
	return func(g *Game) { g.newWorld = f }
}

// WithAutoplay lets the game steer and drop blocks on its own.
func WithAutoplay() Option {
	return func(g *Game) { g.autoplay = true }
}

type particle struct {
	pos   core.Vec
	vel   core.Vec // Units per tick
	color core.Color
	ttl   int
}

// Game adapts the Engine to the terminal frame loop: cell input in,
// cell output out.
type Game struct {
	cfg      config.StackConfig
	runtime  core.RuntimeConfig
	logger   *log.Logger
	newWorld WorldFactory
	autoplay bool

	engine    *Engine
	paused    bool
	events    []Event
	particles []particle
	fx        *rand.Rand
	aimX      float64
	aimFor    physics.BodyID
}

// New creates a game. The config should already be validated.
func New(cfg config.StackConfig, opts ...Option) *Game {
	g := &Game{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		newWorld: ChipmunkWorld,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "stack"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Stack Forever"
}

// Reset starts a new run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	step := DefaultStep
	if rc.TickRate > 0 {
		step = time.Second / time.Duration(rc.TickRate)
	}

	g.engine = NewEngine(g.newWorld(g.cfg), Options{
		Config: g.cfg,
		Seed:   rc.Seed,
		Step:   step,
		Logger: g.logger,
	})
	g.paused = false
	g.events = nil
	g.particles = nil
	g.fx = rand.New(rand.NewSource(rc.Seed + 1))
	g.aimFor = 0

	g.logger.Info("run started", "seed", rc.Seed, "tick_rate", rc.TickRate)
}

// Resize adapts input mapping and rendering to a new screen size without
// restarting the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
}

// Engine returns the running engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Step applies one frame of input and advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		g.Reset(g.runtime)
	}
	if g.engine.Session().Phase() == GameOver {
		g.events = nil
		g.stepParticles()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.applyInput(in)
	if g.autoplay {
		g.autopilot()
	}

	g.events = g.engine.Tick()
	for _, ev := range g.events {
		if burst, ok := ev.(ParticleBurst); ok {
			g.spawnParticles(burst)
		}
	}
	g.stepParticles()

	return core.StepResult{State: g.State()}
}

func (g *Game) applyInput(in core.InputFrame) {
	p := in.Pointer
	if p.Active() {
		pos := g.CellToWorld(p.X, p.Y)
		if p.Pressed {
			g.engine.PointerDown(pos)
		}
		if p.Moved {
			g.engine.PointerMove(pos)
		}
		if p.Released {
			g.engine.PointerUp(pos)
		}
	}

	nudge := g.cfg.Drop.Nudge
	if in.Has(core.ActionLeft) {
		g.engine.Nudge(-nudge)
	}
	if in.Has(core.ActionRight) {
		g.engine.Nudge(nudge)
	}
	if in.Has(core.ActionDrop) {
		g.engine.DropPending()
	}
}

// autopilot drifts each pending block toward a random column near the
// center and drops it once there.
func (g *Game) autopilot() {
	b := g.engine.Pending()
	if b == nil {
		return
	}
	width := g.cfg.Playfield.Width
	if g.aimFor != b.ID {
		g.aimFor = b.ID
		g.aimX = width/2 + (g.fx.Float64()*2-1)*width/8
	}

	x := g.engine.World().Position(b.ID).X
	dx := g.aimX - x
	if math.Abs(dx) <= g.cfg.Drop.Nudge {
		g.engine.DropPending()
		return
	}
	g.engine.Nudge(math.Copysign(g.cfg.Drop.Nudge, dx))
}

func (g *Game) spawnParticles(b ParticleBurst) {
	life := int(particleLife / g.engine.step)
	for i := 0; i < b.Count; i++ {
		angle := g.fx.Float64() * 2 * math.Pi
		speed := (g.fx.Float64()*2 + 1) * b.Intensity / 2
		g.particles = append(g.particles, particle{
			pos:   b.Pos,
			vel:   core.V(math.Cos(angle)*speed, math.Sin(angle)*speed),
			color: b.Color,
			ttl:   life,
		})
	}
}

func (g *Game) stepParticles() {
	alive := g.particles[:0]
	for _, p := range g.particles {
		p.ttl--
		if p.ttl <= 0 {
			continue
		}
		p.pos = p.pos.Add(p.vel)
		alive = append(alive, p)
	}
	g.particles = alive
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	s := g.engine.Session()
	return core.GameState{
		Score:    s.Score(),
		Level:    s.Level(),
		GameOver: s.Phase() == GameOver,
		Paused:   g.paused,
	}
}

// Events returns the events emitted by the last tick.
func (g *Game) Events() []Event {
	return g.events
}

// Backdrop returns the sky color as #rrggbb.
func (g *Game) Backdrop() string {
	if g.engine == nil {
		return Hex(SkyBlue)
	}
	return Hex(SkyColor(g.engine.SkyProgress()))
}

// Snapshot returns the engine snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.engine == nil {
		return Snapshot{}
	}
	return g.engine.Snapshot()
}

// CellToWorld maps the center of a screen cell to playfield coordinates.
func (g *Game) CellToWorld(x, y int) core.Vec {
	cols, rows := g.fieldSize()
	pf := g.cfg.Playfield
	return core.V(
		(float64(x)+0.5)*pf.Width/float64(cols),
		(float64(y-HUDRows)+0.5)*pf.Height/float64(rows),
	)
}

// WorldToCell maps a playfield point to a screen cell.
func (g *Game) WorldToCell(p core.Vec) (int, int) {
	cols, rows := g.fieldSize()
	pf := g.cfg.Playfield
	x := int(math.Floor(p.X / pf.Width * float64(cols)))
	y := int(math.Floor(p.Y/pf.Height*float64(rows))) + HUDRows
	return x, y
}

func (g *Game) fieldSize() (cols, rows int) {
	cols = max(g.runtime.ScreenW, 1)
	rows = max(g.runtime.ScreenH-HUDRows, 1)
	return cols, rows
}

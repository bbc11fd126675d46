package stack

import (
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
)

// Event is emitted by the Engine for the presentation layer.
type Event interface {
	stackEvent()
}

// BlockSpawned is emitted when a new block waits at the spawn point.
type BlockSpawned struct {
	ID       physics.BodyID
	Shape    Shape
	Material Material
}

func (BlockSpawned) stackEvent() {}

// BlockDropped is emitted when a pending block starts falling.
type BlockDropped struct {
	ID   physics.BodyID
	Auto bool // Dropped by the timer rather than the player
}

func (BlockDropped) stackEvent() {}

// BlockSettled is emitted when a block is confirmed at rest.
type BlockSettled struct {
	ID     physics.BodyID
	Scored bool
}

func (BlockSettled) stackEvent() {}

// ScoreChanged is emitted after points are awarded.
type ScoreChanged struct {
	Score float64
	Delta float64
}

func (ScoreChanged) stackEvent() {}

// LevelCleared is emitted when a block reaches the target line.
type LevelCleared struct {
	Level  int // The level that was cleared
	Score  float64
	Landed int // Blocks landed during the level
}

func (LevelCleared) stackEvent() {}

// LevelStarted is emitted when play resumes after a clear.
type LevelStarted struct {
	Level        int
	MaxWind      float64
	DropInterval int64 // Milliseconds
}

func (LevelStarted) stackEvent() {}

// GameOverEvent is emitted once when a block leaves the playfield.
type GameOverEvent struct {
	ID    physics.BodyID
	Score float64
	Level int
}

func (GameOverEvent) stackEvent() {}

// GlueCreated is emitted when two blocks are linked.
type GlueCreated struct {
	Pair       physics.Pair
	RestLength float64
}

func (GlueCreated) stackEvent() {}

// GlueTorn is emitted when wind tears a link apart.
type GlueTorn struct {
	Pair physics.Pair
}

func (GlueTorn) stackEvent() {}

// BlockAnchored is emitted when an adhesive block pins itself to the world.
type BlockAnchored struct {
	ID  physics.BodyID
	Pos core.Vec
}

func (BlockAnchored) stackEvent() {}

// WindChanged is emitted on every wind re-roll.
type WindChanged struct {
	Wind   float64
	Strong bool
}

func (WindChanged) stackEvent() {}

// ParticleBurst asks the presentation layer for a particle effect.
type ParticleBurst struct {
	Pos       core.Vec
	Color     core.Color
	Count     int
	Intensity float64
}

func (ParticleBurst) stackEvent() {}

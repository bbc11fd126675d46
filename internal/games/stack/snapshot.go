package stack

import (
	"encoding/json"
)

// BlockSnapshot is the observable state of one block.
type BlockSnapshot struct {
	ID       uint64  `json:"id"`
	Shape    string  `json:"shape"`
	Material string  `json:"material"`
	Phase    string  `json:"phase"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    uint8   `json:"color"`
	Adhesive bool    `json:"adhesive,omitempty"`
	Anchored bool    `json:"anchored,omitempty"`
	Held     bool    `json:"held,omitempty"`
}

// LinkSnapshot is one glue link.
type LinkSnapshot struct {
	A          uint64  `json:"a"`
	B          uint64  `json:"b"`
	RestLength float64 `json:"rest_length"`
}

// Snapshot captures the game state for determinism testing and spectators.
type Snapshot struct {
	Tick         uint64          `json:"tick"`
	TimeMs       int64           `json:"time_ms"`
	Phase        string          `json:"phase"`
	Level        int             `json:"level"`
	Score        float64         `json:"score"`
	Wind         float64         `json:"wind"`
	WindLabel    string          `json:"wind_label"`
	MaxWind      float64         `json:"max_wind"`
	DropInterval int64           `json:"drop_interval_ms"`
	HighestY     float64         `json:"highest_y"`
	Sky          string          `json:"sky"`
	Landed       int             `json:"landed"`
	Blocks       []BlockSnapshot `json:"blocks"`
	Links        []LinkSnapshot  `json:"links,omitempty"`
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	s := &e.session
	snap := Snapshot{
		Tick:         e.ticks,
		TimeMs:       e.clock.Now().Milliseconds(),
		Phase:        s.phase.String(),
		Level:        s.level,
		Score:        s.score,
		Wind:         s.wind,
		WindLabel:    e.WindLabel(),
		MaxWind:      s.maxWind,
		DropInterval: s.dropInterval.Milliseconds(),
		HighestY:     s.highestY,
		Sky:          Hex(SkyColor(e.SkyProgress())),
		Landed:       s.totalLanded,
		Blocks:       make([]BlockSnapshot, 0, len(e.order)),
	}

	for _, b := range e.Blocks() {
		pos := e.world.Position(b.ID)
		snap.Blocks = append(snap.Blocks, BlockSnapshot{
			ID:       uint64(b.ID),
			Shape:    b.Shape.String(),
			Material: b.Material.String(),
			Phase:    b.Phase.String(),
			X:        pos.X,
			Y:        pos.Y,
			Width:    b.Width,
			Height:   b.Height,
			Color:    uint8(b.Color),
			Adhesive: b.Adhesive,
			Anchored: b.Anchored,
			Held:     b.Held,
		})
	}
	for _, l := range e.glue.Links() {
		snap.Links = append(snap.Links, LinkSnapshot{
			A:          uint64(l.Pair.A),
			B:          uint64(l.Pair.B),
			RestLength: l.RestLength,
		})
	}
	return snap
}

// MarshalJSON keeps the block list non-null for clients.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	if s.Blocks == nil {
		s.Blocks = []BlockSnapshot{}
	}
	return json.Marshal(plain(s))
}

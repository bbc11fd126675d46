package stack

import (
	"fmt"
	"math"

	"github.com/vovakirdan/stack-forever/internal/core"
)

// Visual characters for rendering
const (
	BlockChar    = '█'
	PendingChar  = '▒'
	HeldChar     = '░'
	AnchoredChar = '▓'
	FloorChar    = '▀'
	TargetChar   = '-'
	GlueChar     = '+'
	ParticleChar = '*'
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}
	g.Resize(dst.Width(), dst.Height())
	s := g.engine.Session()

	g.drawFloor(dst)
	if s.Phase() == Playing {
		g.drawTarget(dst)
	}

	for _, b := range g.engine.Blocks() {
		g.drawBlock(dst, b)
	}
	for _, l := range g.engine.Links() {
		w := g.engine.World()
		mid := w.Position(l.Pair.A).Add(w.Position(l.Pair.B)).Scale(0.5)
		x, y := g.WorldToCell(mid)
		dst.SetColored(x, y, GlueChar, core.ColorBrightWhite)
	}
	for _, p := range g.particles {
		x, y := g.WorldToCell(p.pos)
		if y >= HUDRows {
			dst.SetColored(x, y, ParticleChar, p.color)
		}
	}

	g.drawHUD(dst)

	switch {
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case s.Phase() == LevelClearing:
		g.drawCenteredMessage(dst, "TARGET REACHED!", fmt.Sprintf("Level %d", s.Level()))
	case s.Phase() == GameOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Final Score: %s  |  Press R to restart", FormatScore(s.Score())))
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.engine.Session()
	hud := fmt.Sprintf(" Score: %s  Level: %d  Wind: %s ", FormatScore(s.Score()), s.Level(), g.engine.WindLabel())
	c := core.ColorDefault
	if g.engine.StrongWind() {
		c = core.ColorBrightRed
	}
	dst.DrawTextColored(0, 0, hud, c)
}

func (g *Game) drawFloor(dst *core.Screen) {
	pf := g.cfg.Playfield
	_, top := g.WorldToCell(core.V(0, pf.Height-pf.FloorHeight))
	for y := top; y < dst.Height(); y++ {
		dst.DrawHLine(0, y, dst.Width(), FloorChar, core.ColorGray)
	}
}

func (g *Game) drawTarget(dst *core.Screen) {
	_, y := g.WorldToCell(core.V(0, g.cfg.Playfield.TargetY))
	for x := 0; x < dst.Width(); x += 2 {
		dst.SetColored(x, y, TargetChar, core.ColorRed)
	}
}

// drawBlock fills every cell whose center lies inside the block footprint.
func (g *Game) drawBlock(dst *core.Screen, b *Block) {
	w := g.engine.World()
	pos := w.Position(b.ID)
	ch := BlockChar
	switch {
	case b.Phase == PhasePending:
		ch = PendingChar
	case b.Held:
		ch = HeldChar
	case b.Anchored:
		ch = AnchoredChar
	}

	x0, y0 := g.WorldToCell(core.V(pos.X-b.Width/2, pos.Y-b.Height/2))
	x1, y1 := g.WorldToCell(core.V(pos.X+b.Width/2, pos.Y+b.Height/2))
	drawn := false
	for y := max(y0, HUDRows); y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := g.CellToWorld(x, y)
			if !b.covers(pos, c) {
				continue
			}
			dst.SetColored(x, y, ch, b.Color)
			drawn = true
		}
	}
	if !drawn {
		x, y := g.WorldToCell(pos)
		dst.SetColored(x, y, ch, b.Color)
	}
}

// covers reports whether point p lies inside a block centered at center.
func (b *Block) covers(center, p core.Vec) bool {
	if b.Shape == ShapeCircle {
		return center.Dist(p) <= b.Width/2
	}
	return math.Abs(p.X-center.X) <= b.Width/2 && math.Abs(p.Y-center.Y) <= b.Height/2
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawTextCentered(boxY+1, title, core.ColorBrightWhite)
	dst.DrawTextCentered(boxY+3, subtitle, core.ColorDefault)
}

// FormatScore prints whole scores without decimals.
func FormatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

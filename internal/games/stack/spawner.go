package stack

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
)

// Spawner draws the shape, size and material of new blocks.
type Spawner struct {
	cfg config.BlocksConfig
	rng *rand.Rand
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(cfg config.BlocksConfig, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// Next builds a pending block. The caller registers it with the world.
func (s *Spawner) Next() *Block {
	shape := Shapes[s.rng.Intn(len(Shapes))]
	material := s.material()
	w, h := s.size(shape)
	profile := s.profile(material)

	b := &Block{
		Shape:    shape,
		Material: material,
		Width:    w,
		Height:   h,
		Density:  s.baseDensity(shape) * profile.Density,
		Color:    core.BlockPalette[s.rng.Intn(len(core.BlockPalette))],
		Phase:    PhasePending,
	}
	b.Friction = math.Max(s.cfg.FrictionMin, (s.cfg.Friction+s.draw(s.cfg.FrictionJitter))*profile.Friction)
	b.Restitution = math.Max(s.cfg.RestitutionMin, (s.cfg.Restitution+s.draw(s.cfg.RestitutionJitter))*profile.Restitution)
	b.Adhesive = s.rng.Float64() < s.cfg.AdhesiveChance
	return b
}

// material makes a weighted draw between the three profiles.
func (s *Spawner) material() Material {
	weights := []struct {
		m Material
		w float64
	}{
		{MaterialAnchor, s.cfg.Anchor.Weight},
		{MaterialLight, s.cfg.Light.Weight},
		{MaterialNormal, s.cfg.Normal.Weight},
	}

	total := 0.0
	for _, e := range weights {
		total += math.Max(0, e.w)
	}
	if total <= 0 {
		return MaterialNormal
	}

	r := s.rng.Float64() * total
	for _, e := range weights {
		r -= math.Max(0, e.w)
		if r < 0 {
			return e.m
		}
	}
	return MaterialNormal
}

func (s *Spawner) profile(m Material) config.MaterialConfig {
	switch m {
	case MaterialAnchor:
		return s.cfg.Anchor
	case MaterialLight:
		return s.cfg.Light
	default:
		return s.cfg.Normal
	}
}

func (s *Spawner) baseDensity(shape Shape) float64 {
	switch shape {
	case ShapeCircle:
		return s.cfg.Density.Circle
	case ShapeSmallRectangle:
		return s.cfg.Density.SmallRectangle
	case ShapeWideRectangle:
		return s.cfg.Density.WideRectangle
	default:
		return s.cfg.Density.Rectangle
	}
}

// size returns the footprint for a shape in reference units.
func (s *Spawner) size(shape Shape) (w, h float64) {
	sizes := s.cfg.Size
	switch shape {
	case ShapeCircle:
		d := 2 * s.draw(sizes.CircleRadius)
		return d, d
	case ShapeSmallRectangle:
		return s.box(sizes.SmallRectangle)
	case ShapeWideRectangle:
		return s.box(sizes.WideRectangle)
	default:
		return s.box(sizes.Rectangle)
	}
}

func (s *Spawner) box(c config.BoxSizeConfig) (w, h float64) {
	w = s.draw(c.Width)
	h = s.draw(c.Height)
	return w, h
}

func (s *Spawner) draw(r config.RangeConfig) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

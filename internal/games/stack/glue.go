package stack

import (
	"sort"
	"time"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/physics"
)

// Link is a glue constraint between two blocks.
type Link struct {
	Pair       physics.Pair
	ID         physics.LinkID
	RestLength float64
	CreatedAt  time.Duration
}

// Glue binds blocks that stay in contact and tears links under strong wind.
type Glue struct {
	cfg      config.GlueConfig
	contacts map[physics.Pair]time.Duration // Contact start time
	links    map[physics.Pair]*Link
}

// NewGlue creates an empty glue subsystem.
func NewGlue(cfg config.GlueConfig) *Glue {
	return &Glue{
		cfg:      cfg,
		contacts: make(map[physics.Pair]time.Duration),
		links:    make(map[physics.Pair]*Link),
	}
}

// Update tracks contacts between eligible bodies and links pairs whose
// contact has lasted long enough. Linked pairs are not tracked again.
func (g *Glue) Update(now time.Duration, w physics.World, eligible func(physics.BodyID) bool) []Event {
	if !g.cfg.Enabled {
		return nil
	}

	touching := make(map[physics.Pair]bool)
	for _, p := range w.Contacts() {
		if _, linked := g.links[p]; linked {
			continue
		}
		if !eligible(p.A) || !eligible(p.B) {
			continue
		}
		touching[p] = true
	}

	for p := range g.contacts {
		if !touching[p] {
			delete(g.contacts, p)
		}
	}

	var events []Event
	for _, p := range sortedPairs(touching) {
		start, tracked := g.contacts[p]
		if !tracked {
			g.contacts[p] = now
			continue
		}
		if now-start < g.cfg.ContactDuration {
			continue
		}
		delete(g.contacts, p)

		rest := w.Position(p.A).Dist(w.Position(p.B))
		id := w.Link(p.A, p.B, rest)
		if id == 0 {
			continue
		}
		g.links[p] = &Link{Pair: p, ID: id, RestLength: rest, CreatedAt: now}
		events = append(events, GlueCreated{Pair: p, RestLength: rest})
	}
	return events
}

// Tear destroys links stretched past the tear ratio. It only runs under
// strong wind and skips links with a held endpoint.
func (g *Glue) Tear(w physics.World, strong bool, held func(physics.BodyID) bool) []Event {
	var events []Event
	for _, l := range g.Links() {
		if !w.Exists(l.Pair.A) || !w.Exists(l.Pair.B) {
			w.Unlink(l.ID)
			delete(g.links, l.Pair)
			continue
		}
		if !strong || held(l.Pair.A) || held(l.Pair.B) {
			continue
		}
		dist := w.Position(l.Pair.A).Dist(w.Position(l.Pair.B))
		if dist <= l.RestLength*g.cfg.TearRatio {
			continue
		}
		w.Unlink(l.ID)
		delete(g.links, l.Pair)
		events = append(events, GlueTorn{Pair: l.Pair})
	}
	return events
}

// Clear removes every link from the world and forgets all contacts.
func (g *Glue) Clear(w physics.World) {
	for p, l := range g.links {
		w.Unlink(l.ID)
		delete(g.links, p)
	}
	for p := range g.contacts {
		delete(g.contacts, p)
	}
}

// Linked reports whether a pair is glued.
func (g *Glue) Linked(a, b physics.BodyID) bool {
	_, ok := g.links[physics.MakePair(a, b)]
	return ok
}

// Tracking returns the number of pairs whose contact is being timed.
func (g *Glue) Tracking() int {
	return len(g.contacts)
}

// Links returns every link ordered by pair.
func (g *Glue) Links() []*Link {
	out := make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return pairLess(out[i].Pair, out[j].Pair)
	})
	return out
}

func sortedPairs(set map[physics.Pair]bool) []physics.Pair {
	out := make([]physics.Pair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return pairLess(out[i], out[j]) })
	return out
}

func pairLess(a, b physics.Pair) bool {
	if a.A != b.A {
		return a.A < b.A
	}
	return a.B < b.B
}

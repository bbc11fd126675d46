package stack

import "time"

// SessionPhase is the state of the scoring and level state machine.
type SessionPhase int

const (
	Playing SessionPhase = iota
	LevelClearing
	GameOver
)

func (p SessionPhase) String() string {
	switch p {
	case Playing:
		return "playing"
	case LevelClearing:
		return "level_clearing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Session is the per-run game state. It is reset in place when a level
// clears and only the Engine mutates it.
type Session struct {
	score        float64
	phase        SessionPhase
	wind         float64
	maxWind      float64
	highestY     float64
	dropInterval time.Duration
	level        int
	landed       int
	totalLanded  int
}

// Score returns the points earned on the current level.
func (s *Session) Score() float64 { return s.score }

// Phase returns the state machine phase.
func (s *Session) Phase() SessionPhase { return s.phase }

// Wind returns the signed horizontal wind force.
func (s *Session) Wind() float64 { return s.wind }

// MaxWind returns the wind magnitude bound for the current level.
func (s *Session) MaxWind() float64 { return s.maxWind }

// HighestY returns the smallest top edge reached by a dropped block this level.
// It starts at the playfield height.
func (s *Session) HighestY() float64 { return s.highestY }

// DropInterval returns the auto-drop delay for the current level.
func (s *Session) DropInterval() time.Duration { return s.dropInterval }

// Level returns the 1-based level number.
func (s *Session) Level() int { return s.level }

// Landed returns the number of blocks scored on the current level.
func (s *Session) Landed() int { return s.landed }

// TotalLanded returns the number of blocks scored in the whole run.
func (s *Session) TotalLanded() int { return s.totalLanded }

// setWind stores a wind value clamped to the current bound.
func (s *Session) setWind(w float64) {
	if w > s.maxWind {
		w = s.maxWind
	}
	if w < -s.maxWind {
		w = -s.maxWind
	}
	s.wind = w
}

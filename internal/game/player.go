package game

import "time"

// Mode is the game variant. It determines which fields judging mutates:
// scoring updates score/roundScore, survival updates lives/lostLives.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeScoring  Mode = "scoring"
	ModeSurvival Mode = "survival"
)

const DefaultLives = 3

// Player is the per-identity record inside one room. The ID is the unique
// key; the record survives reconnects within the grace window, so score and
// lives carry over when the same identity resumes.
type Player struct {
	ID     string
	Name   string
	Avatar string

	Score              int
	RoundScore         int
	Lives              int
	LostLivesThisRound int
	JudgementCorrect   bool

	LastActiveAt time.Time
}

func NewPlayer(id, name, avatar string, now time.Time) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		Avatar:       avatar,
		Lives:        DefaultLives,
		LastActiveAt: now,
	}
}

// Touch refreshes the presence timestamp: on join, on resume, and on
// disconnect (where it marks the start of the grace window).
func (p *Player) Touch(now time.Time) {
	p.LastActiveAt = now
}

// Expired reports whether the player has been inactive for at least grace.
// Eviction decisions call this at fire time, never on a value captured when
// a timer was armed.
func (p *Player) Expired(now time.Time, grace time.Duration) bool {
	return now.Sub(p.LastActiveAt) >= grace
}

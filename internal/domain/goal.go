package domain

import (
	"math"
	"time"
)

// Goal is a user-defined reading challenge ("leer 10 libros en 2025").
// Current advances toward Target in whole units.
type Goal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"` // e.g. "Libros", "Días Semana"
	Target    int       `json:"target"`
	Current   int       `json:"current"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressPercent returns completion as a percentage with one decimal of
// precision, clamped to 100.
func (g *Goal) ProgressPercent() float64 {
	if g.Target <= 0 {
		return 0
	}
	pct := float64(g.Current) / float64(g.Target) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}

// IsComplete reports whether the goal has been reached.
func (g *Goal) IsComplete() bool {
	return g.Target > 0 && g.Current >= g.Target
}

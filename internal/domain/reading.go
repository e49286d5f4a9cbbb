package domain

import "time"

// ReadingSession is one timed stretch of reading, driven by the timer screen.
// A session is open until FinishedAt is set; its duration feeds the daily and
// weekly reading-time widgets.
type ReadingSession struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMs int64      `json:"duration_ms"`
}

// IsActive returns true while the timer is still running.
func (s *ReadingSession) IsActive() bool {
	return s.FinishedAt == nil
}

// Finish stops the session at the given time and records the elapsed duration.
// Finishing an already-finished session is a no-op.
func (s *ReadingSession) Finish(now time.Time) {
	if s.FinishedAt != nil {
		return
	}
	s.FinishedAt = &now
	s.DurationMs = now.Sub(s.StartedAt).Milliseconds()
	if s.DurationMs < 0 {
		s.DurationMs = 0
	}
}

// DayTotal is aggregated reading time for one calendar day.
type DayTotal struct {
	Day        time.Time `json:"day"` // Midnight, local time
	DurationMs int64     `json:"duration_ms"`
}

// ReadingStats backs the shelf's reading-time widgets.
type ReadingStats struct {
	TodayMs  int64      `json:"today_ms"`
	WeekMs   int64      `json:"week_ms"`
	WeekDays []DayTotal `json:"week_days"` // Last seven days, oldest first
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/id"
	"github.com/paginoid/paginoid-server/internal/sse"
	"github.com/paginoid/paginoid-server/internal/store"
	"github.com/paginoid/paginoid-server/internal/store/sqlite"
)

// ReadingService drives the reading timer. A user has at most one open
// session; starting is idempotent while one is running and totals feed the
// daily and weekly widgets.
type ReadingService struct {
	db     *sqlite.Store
	events store.EventEmitter
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewReadingService creates a new reading timer service.
func NewReadingService(db *sqlite.Store, events store.EventEmitter, logger *slog.Logger) *ReadingService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReadingService{
		db:     db,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Start begins a reading session, or returns the one already running.
func (s *ReadingService) Start(ctx context.Context, userID string) (*domain.ReadingSession, error) {
	active, err := s.db.GetActiveReadingSession(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	if active != nil {
		return active, nil
	}

	sessionID, err := id.Generate("rsession")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	session := &domain.ReadingSession{
		ID:        sessionID,
		UserID:    userID,
		StartedAt: s.now(),
	}
	if err := s.db.CreateReadingSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.events.Emit(sse.NewReadingStartedEvent(session))

	s.logger.Info("reading session started",
		"user_id", userID,
		"session_id", sessionID,
	)
	return session, nil
}

// Stop finishes the running session and returns it with its duration set.
func (s *ReadingService) Stop(ctx context.Context, userID string) (*domain.ReadingSession, error) {
	active, err := s.db.GetActiveReadingSession(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no reading session is running")
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}

	active.Finish(s.now())
	if err := s.db.UpdateReadingSession(ctx, active); err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}

	s.events.Emit(sse.NewReadingFinishedEvent(active))

	s.logger.Info("reading session finished",
		"user_id", userID,
		"session_id", active.ID,
		"duration_ms", active.DurationMs,
	)
	return active, nil
}

// Active returns the running session, or nil when the timer is stopped.
func (s *ReadingService) Active(ctx context.Context, userID string) (*domain.ReadingSession, error) {
	active, err := s.db.GetActiveReadingSession(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return active, nil
}

// Stats aggregates finished reading time for the widgets: today's total and
// a per-day breakdown of the last seven days, oldest first.
func (s *ReadingService) Stats(ctx context.Context, userID string) (*domain.ReadingStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &domain.ReadingStats{
		WeekDays: make([]domain.DayTotal, 0, 7),
	}

	for offset := 6; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		total, err := s.db.SumReadingTime(ctx, userID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("sum reading time: %w", err)
		}
		stats.WeekDays = append(stats.WeekDays, domain.DayTotal{Day: day, DurationMs: total})
		stats.WeekMs += total
	}
	stats.TodayMs = stats.WeekDays[len(stats.WeekDays)-1].DurationMs

	return stats, nil
}

// History lists finished and running sessions in the given range, newest
// first.
func (s *ReadingService) History(ctx context.Context, userID string, from, to time.Time) ([]*domain.ReadingSession, error) {
	sessions, err := s.db.ListReadingSessions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

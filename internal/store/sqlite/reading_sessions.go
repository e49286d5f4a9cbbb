package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/store"
)

// readingSessionColumns is the ordered list of columns selected in reading
// session queries. Must match the scan order in scanReadingSession.
const readingSessionColumns = `id, user_id, started_at, finished_at, duration_ms`

// scanReadingSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.ReadingSession.
func scanReadingSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var (
		rs         domain.ReadingSession
		startedAt  string
		finishedAt sql.NullString
	)

	err := scanner.Scan(
		&rs.ID,
		&rs.UserID,
		&startedAt,
		&finishedAt,
		&rs.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	rs.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	rs.FinishedAt, err = parseNullableTime(finishedAt)
	if err != nil {
		return nil, err
	}

	return &rs, nil
}

// CreateReadingSession inserts a new reading session.
// Returns store.ErrAlreadyExists if the session ID already exists.
func (s *Store) CreateReadingSession(ctx context.Context, session *domain.ReadingSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (id, user_id, started_at, finished_at, duration_ms)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		formatTime(session.StartedAt),
		nullTimeString(session.FinishedAt),
		session.DurationMs,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert reading session: %w", err)
	}
	return nil
}

// GetReadingSession retrieves a reading session by ID, scoped to its owner.
func (s *Store) GetReadingSession(ctx context.Context, userID, sessionID string) (*domain.ReadingSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+readingSessionColumns+`
		FROM reading_sessions
		WHERE id = ? AND user_id = ?`,
		sessionID, userID,
	)

	session, err := scanReadingSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("reading session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get reading session: %w", err)
	}
	return session, nil
}

// GetActiveReadingSession returns the user's open reading session,
// or store.ErrNotFound if the timer is not running.
func (s *Store) GetActiveReadingSession(ctx context.Context, userID string) (*domain.ReadingSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+readingSessionColumns+`
		FROM reading_sessions
		WHERE user_id = ? AND finished_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`,
		userID,
	)

	session, err := scanReadingSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("no active reading session")
	}
	if err != nil {
		return nil, fmt.Errorf("get active reading session: %w", err)
	}
	return session, nil
}

// UpdateReadingSession updates an existing reading session (used to finish the timer).
func (s *Store) UpdateReadingSession(ctx context.Context, session *domain.ReadingSession) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reading_sessions
		SET started_at = ?, finished_at = ?, duration_ms = ?
		WHERE id = ? AND user_id = ?`,
		formatTime(session.StartedAt),
		nullTimeString(session.FinishedAt),
		session.DurationMs,
		session.ID,
		session.UserID,
	)
	if err != nil {
		return fmt.Errorf("update reading session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("reading session not found")
	}
	return nil
}

// ListReadingSessions returns the user's finished sessions that started in
// [from, to), newest first.
func (s *Store) ListReadingSessions(ctx context.Context, userID string, from, to time.Time) ([]*domain.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+readingSessionColumns+`
		FROM reading_sessions
		WHERE user_id = ? AND started_at >= ? AND started_at < ?
		ORDER BY started_at DESC`,
		userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list reading sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ReadingSession
	for rows.Next() {
		session, err := scanReadingSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// SumReadingTime returns total recorded reading time for sessions that
// started in [from, to).
func (s *Store) SumReadingTime(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(duration_ms)
		FROM reading_sessions
		WHERE user_id = ? AND started_at >= ? AND started_at < ? AND finished_at IS NOT NULL`,
		userID, formatTime(from), formatTime(to),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum reading time: %w", err)
	}
	return total.Int64, nil
}

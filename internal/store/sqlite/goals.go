package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/store"
)

const goalColumns = `id, user_id, name, unit, target, current, created_at, updated_at`

func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.Goal, error) {
	var (
		g         domain.Goal
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Unit,
		&g.Target,
		&g.Current,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGoal inserts a new goal.
// Returns store.ErrAlreadyExists if the goal ID already exists.
func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, name, unit, target, current, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Unit,
		goal.Target,
		goal.Current,
		formatTime(goal.CreatedAt),
		formatTime(goal.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID, scoped to its owner.
func (s *Store) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE id = ? AND user_id = ?`,
		goalID, userID,
	)

	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("goal not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns all of a user's goals, oldest first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// UpdateGoal updates an existing goal.
func (s *Store) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals
		SET name = ?, unit = ?, target = ?, current = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		goal.Name,
		goal.Unit,
		goal.Target,
		goal.Current,
		formatTime(goal.UpdatedAt),
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("goal not found")
	}
	return nil
}

// DeleteGoal removes a goal. Deleting a missing goal is not an error.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM goals WHERE id = ? AND user_id = ?`,
		goalID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

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

// GoalService manages reading challenges.
type GoalService struct {
	db     *sqlite.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(db *sqlite.Store, events store.EventEmitter, logger *slog.Logger) *GoalService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GoalService{
		db:     db,
		events: events,
		logger: logger,
	}
}

// CreateGoalRequest contains the data for a new goal.
type CreateGoalRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Unit   string `json:"unit" validate:"required,max=40"`
	Target int    `json:"target" validate:"required,min=1"`
}

// Create adds a new goal for the user, starting at zero progress.
func (s *GoalService) Create(ctx context.Context, userID string, req CreateGoalRequest) (*domain.Goal, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:        goalID,
		UserID:    userID,
		Name:      req.Name,
		Unit:      req.Unit,
		Target:    req.Target,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	s.events.Emit(sse.NewGoalUpdatedEvent(goal))

	s.logger.Info("goal created", "user_id", userID, "goal_id", goalID)
	return goal, nil
}

// Get returns one goal.
func (s *GoalService) Get(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goal, err := s.db.GetGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("goal not found")
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

// List returns the user's goals, newest first.
func (s *GoalService) List(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals, err := s.db.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// SetProgress moves a goal's progress to an absolute value, clamped at zero.
func (s *GoalService) SetProgress(ctx context.Context, userID, goalID string, current int) (*domain.Goal, error) {
	goal, err := s.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if current < 0 {
		current = 0
	}
	goal.Current = current
	goal.UpdatedAt = time.Now()

	if err := s.db.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	s.events.Emit(sse.NewGoalUpdatedEvent(goal))
	return goal, nil
}

// Advance increments a goal's progress by delta (which may be negative) and
// returns the updated goal.
func (s *GoalService) Advance(ctx context.Context, userID, goalID string, delta int) (*domain.Goal, error) {
	goal, err := s.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.SetProgress(ctx, userID, goalID, goal.Current+delta)
}

// Delete removes a goal. Deleting a goal that is already gone is not an error.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	if err := s.db.DeleteGoal(ctx, userID, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	s.logger.Info("goal deleted", "user_id", userID, "goal_id", goalID)
	return nil
}

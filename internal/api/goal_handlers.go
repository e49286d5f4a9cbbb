package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createGoal",
		Method:        http.MethodPost,
		Path:          "/api/v1/goals",
		Summary:       "Create goal",
		Description:   "Creates a reading goal with zero progress",
		Tags:          []string{"Goals"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List goals",
		Description: "Returns all goals owned by the current user",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Get goal",
		Description: "Returns a goal by ID",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGoalProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals/{id}/progress",
		Summary:     "Set goal progress",
		Description: "Sets the current progress value of a goal",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGoalProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "advanceGoal",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/{id}/advance",
		Summary:     "Advance goal",
		Description: "Adds a delta to the goal's current progress",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdvanceGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGoal",
		Method:      http.MethodDelete,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Delete goal",
		Description: "Removes a goal",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGoal)
}

// === DTOs ===

// CreateGoalRequest is the request body for creating a goal.
type CreateGoalRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=120" doc:"Goal name"`
	Unit   string `json:"unit" validate:"required,min=1,max=40" doc:"Progress unit, e.g. Libros"`
	Target int    `json:"target" validate:"required,min=1" doc:"Target value"`
}

// CreateGoalInput wraps the create goal request for Huma.
type CreateGoalInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateGoalRequest
}

// GoalResponse contains goal data in API responses.
type GoalResponse struct {
	ID        string    `json:"id" doc:"Goal ID"`
	Name      string    `json:"name" doc:"Goal name"`
	Unit      string    `json:"unit" doc:"Progress unit"`
	Target    int       `json:"target" doc:"Target value"`
	Current   int       `json:"current" doc:"Current progress"`
	Percent   float64   `json:"percent" doc:"Completion percentage, capped at 100"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// GoalOutput wraps a goal response for Huma.
type GoalOutput struct {
	Body GoalResponse
}

// ListGoalsInput contains parameters for listing goals.
type ListGoalsInput struct {
	Authorization string `header:"Authorization"`
}

// ListGoalsResponse contains a list of goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals" doc:"Goals owned by the user"`
}

// ListGoalsOutput wraps the goal list for Huma.
type ListGoalsOutput struct {
	Body ListGoalsResponse
}

// GetGoalInput contains parameters for fetching a goal.
type GetGoalInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Goal ID"`
}

// GoalProgressRequest is the request body for setting progress.
type GoalProgressRequest struct {
	Current int `json:"current" doc:"New progress value, negative clamps to zero"`
}

// GoalProgressInput wraps the progress request for Huma.
type GoalProgressInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Goal ID"`
	Body          GoalProgressRequest
}

// GoalAdvanceRequest is the request body for advancing progress.
type GoalAdvanceRequest struct {
	Delta int `json:"delta" doc:"Amount to add, may be negative"`
}

// GoalAdvanceInput wraps the advance request for Huma.
type GoalAdvanceInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Goal ID"`
	Body          GoalAdvanceRequest
}

// === Handlers ===

func (s *Server) handleCreateGoal(ctx context.Context, input *CreateGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Create(ctx, userID, service.CreateGoalRequest{
		Name:   input.Body.Name,
		Unit:   input.Body.Unit,
		Target: input.Body.Target,
	})
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoal(goal)}, nil
}

func (s *Server) handleListGoals(ctx context.Context, _ *ListGoalsInput) (*ListGoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goals, err := s.services.Goal.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		out = append(out, mapGoal(goal))
	}

	return &ListGoalsOutput{Body: ListGoalsResponse{Goals: out}}, nil
}

func (s *Server) handleGetGoal(ctx context.Context, input *GetGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoal(goal)}, nil
}

func (s *Server) handleSetGoalProgress(ctx context.Context, input *GoalProgressInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.SetProgress(ctx, userID, input.ID, input.Body.Current)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoal(goal)}, nil
}

func (s *Server) handleAdvanceGoal(ctx context.Context, input *GoalAdvanceInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Advance(ctx, userID, input.ID, input.Body.Delta)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoal(goal)}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *GetGoalInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Goal.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Goal deleted"}}, nil
}

// === Helpers ===

func mapGoal(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:        goal.ID,
		Name:      goal.Name,
		Unit:      goal.Unit,
		Target:    goal.Target,
		Current:   goal.Current,
		Percent:   goal.ProgressPercent(),
		CreatedAt: goal.CreatedAt,
		UpdatedAt: goal.UpdatedAt,
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
)

func (s *Server) registerReadingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/reading/start",
		Summary:     "Start reading timer",
		Description: "Opens a reading session; idempotent if one is already running",
		Tags:        []string{"Reading"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "stopReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/reading/stop",
		Summary:     "Stop reading timer",
		Description: "Closes the running reading session and records its duration",
		Tags:        []string{"Reading"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStopReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "activeReading",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading/active",
		Summary:     "Get active reading session",
		Description: "Returns the running reading session, or null when none is open",
		Tags:        []string{"Reading"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleActiveReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "readingStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading/stats",
		Summary:     "Get reading stats",
		Description: "Returns today's total and per-day totals for the last seven days",
		Tags:        []string{"Reading"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReadingStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "readingHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading/history",
		Summary:     "Get reading history",
		Description: "Returns finished reading sessions within a date range, newest first",
		Tags:        []string{"Reading"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReadingHistory)
}

// === DTOs ===

// ReadingInput contains parameters for reading timer operations.
type ReadingInput struct {
	Authorization string `header:"Authorization"`
}

// ReadingSessionResponse contains reading session data in API responses.
type ReadingSessionResponse struct {
	ID         string     `json:"id" doc:"Session ID"`
	StartedAt  time.Time  `json:"started_at" doc:"Start time"`
	FinishedAt *time.Time `json:"finished_at,omitempty" doc:"Finish time, absent while running"`
	DurationMs int64      `json:"duration_ms" doc:"Recorded duration in milliseconds"`
}

// ReadingSessionOutput wraps a reading session for Huma.
type ReadingSessionOutput struct {
	Body ReadingSessionResponse
}

// ActiveReadingResponse carries the running session, or null when idle.
type ActiveReadingResponse struct {
	Session *ReadingSessionResponse `json:"session" doc:"Running session, null when none"`
}

// ActiveReadingOutput wraps the active session response for Huma.
type ActiveReadingOutput struct {
	Body ActiveReadingResponse
}

// DayTotalResponse is one day's reading total.
type DayTotalResponse struct {
	Day        time.Time `json:"day" doc:"Midnight, local time"`
	DurationMs int64     `json:"duration_ms" doc:"Total reading time that day"`
}

// ReadingStatsResponse contains aggregated reading time.
type ReadingStatsResponse struct {
	TodayMs  int64              `json:"today_ms" doc:"Reading time today"`
	WeekMs   int64              `json:"week_ms" doc:"Reading time over the last seven days"`
	WeekDays []DayTotalResponse `json:"week_days" doc:"Last seven days, oldest first"`
}

// ReadingStatsOutput wraps the stats response for Huma.
type ReadingStatsOutput struct {
	Body ReadingStatsResponse
}

// ReadingHistoryInput contains parameters for the history query.
type ReadingHistoryInput struct {
	Authorization string `header:"Authorization"`
	From          string `query:"from" doc:"Range start, RFC 3339; defaults to 30 days ago"`
	To            string `query:"to" doc:"Range end, RFC 3339; defaults to now"`
}

// ReadingHistoryResponse contains finished sessions in a range.
type ReadingHistoryResponse struct {
	Sessions []ReadingSessionResponse `json:"sessions" doc:"Finished sessions, newest first"`
}

// ReadingHistoryOutput wraps the history response for Huma.
type ReadingHistoryOutput struct {
	Body ReadingHistoryResponse
}

// === Handlers ===

func (s *Server) handleStartReading(ctx context.Context, _ *ReadingInput) (*ReadingSessionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.services.Reading.Start(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReadingSessionOutput{Body: mapReadingSession(session)}, nil
}

func (s *Server) handleStopReading(ctx context.Context, _ *ReadingInput) (*ReadingSessionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.services.Reading.Stop(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReadingSessionOutput{Body: mapReadingSession(session)}, nil
}

func (s *Server) handleActiveReading(ctx context.Context, _ *ReadingInput) (*ActiveReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.services.Reading.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := ActiveReadingResponse{}
	if session != nil {
		mapped := mapReadingSession(session)
		out.Session = &mapped
	}

	return &ActiveReadingOutput{Body: out}, nil
}

func (s *Server) handleReadingStats(ctx context.Context, _ *ReadingInput) (*ReadingStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Reading.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := make([]DayTotalResponse, 0, len(stats.WeekDays))
	for _, day := range stats.WeekDays {
		days = append(days, DayTotalResponse{Day: day.Day, DurationMs: day.DurationMs})
	}

	return &ReadingStatsOutput{Body: ReadingStatsResponse{
		TodayMs:  stats.TodayMs,
		WeekMs:   stats.WeekMs,
		WeekDays: days,
	}}, nil
}

func (s *Server) handleReadingHistory(ctx context.Context, input *ReadingHistoryInput) (*ReadingHistoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if input.From != "" {
		from, err = time.Parse(time.RFC3339, input.From)
		if err != nil {
			return nil, domainerrors.Validationf("fecha inválida: %q", input.From)
		}
	}
	if input.To != "" {
		to, err = time.Parse(time.RFC3339, input.To)
		if err != nil {
			return nil, domainerrors.Validationf("fecha inválida: %q", input.To)
		}
	}

	sessions, err := s.services.Reading.History(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]ReadingSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, mapReadingSession(session))
	}

	return &ReadingHistoryOutput{Body: ReadingHistoryResponse{Sessions: out}}, nil
}

// === Helpers ===

func mapReadingSession(session *domain.ReadingSession) ReadingSessionResponse {
	return ReadingSessionResponse{
		ID:         session.ID,
		StartedAt:  session.StartedAt,
		FinishedAt: session.FinishedAt,
		DurationMs: session.DurationMs,
	}
}

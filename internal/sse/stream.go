package sse

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// ShelfSubscription is a live shelf query as the stream endpoint consumes it.
type ShelfSubscription interface {
	Snapshots() <-chan []*domain.Book
	Unsubscribe()
}

// ShelfSubscriber opens a live shelf query for an owner, optionally filtered
// by status (empty means the whole shelf).
type ShelfSubscriber func(ctx context.Context, ownerID string, status domain.Status) (ShelfSubscription, error)

// StreamHandler serves GET /api/v1/shelf/stream: a live shelf query over SSE.
// Each connection gets its own subscription; the first event is the current
// snapshot, and every shelf mutation pushes a fresh one. A ?status= query
// parameter filters the listing.
type StreamHandler struct {
	subscribe    ShelfSubscriber
	authenticate Authenticator
	logger       *slog.Logger
}

// NewStreamHandler creates a shelf stream handler.
func NewStreamHandler(subscribe ShelfSubscriber, authenticate Authenticator, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StreamHandler{
		subscribe:    subscribe,
		authenticate: authenticate,
		logger:       logger,
	}
}

// ServeHTTP handles the shelf stream connection.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := h.authenticate(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status := domain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	sub, err := h.subscribe(ctx, userID, status)
	if err != nil {
		h.logger.Error("failed to open shelf subscription",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		http.Error(w, "Failed to establish stream", http.StatusInternalServerError)
		return
	}
	defer sub.Unsubscribe()

	streamLogger := h.logger.With(slog.String("user_id", userID))

	heartbeatTicker := time.NewTicker(30 * time.Second)
	defer heartbeatTicker.Stop()

	for {
		select {
		case books, ok := <-sub.Snapshots():
			if !ok {
				// Subscription closed by the store (shutdown).
				streamLogger.Info("shelf stream closed by store")
				return
			}
			event := NewShelfSnapshotEvent(userID, status, books)
			if err := h.writeEvent(w, rc, event); err != nil {
				streamLogger.Info("client disconnected during snapshot")
				return
			}

		case <-heartbeatTicker.C:
			if err := h.writeEvent(w, rc, NewHeartbeatEvent()); err != nil {
				streamLogger.Info("client disconnected during heartbeat")
				return
			}

		case <-ctx.Done():
			streamLogger.Info("shelf stream context canceled")
			return
		}
	}
}

func (h *StreamHandler) writeEvent(w http.ResponseWriter, rc *http.ResponseController, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, jsonData); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}
	if err := rc.SetWriteDeadline(time.Now().Add(60 * time.Second)); err != nil {
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}
	return nil
}

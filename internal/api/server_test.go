package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/auth"
	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/search"
	"github.com/paginoid/paginoid-server/internal/service"
	"github.com/paginoid/paginoid-server/internal/sse"
	"github.com/paginoid/paginoid-server/internal/store"
	"github.com/paginoid/paginoid-server/internal/store/sqlite"
)

// testKeyHex is a fixed PASETO key for tests (32 bytes as hex).
const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// apiTestServer wraps the API server for handler testing.
type apiTestServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

// setupTestServer creates a test server with real stores under a temp dir.
func setupTestServer(t *testing.T) *apiTestServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(tmpDir, "docs"), logger, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	db, err := sqlite.Open(filepath.Join(tmpDir, "timeseries.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := search.NewIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	sessionService := service.NewSessionService(st, tokens, logger)
	authService := service.NewAuthService(st, sessionService, logger)
	bookService := service.NewBookService(st, logger)
	profileService := service.NewProfileService(st, store.NewNoopEmitter(), logger)
	readingService := service.NewReadingService(db, store.NewNoopEmitter(), logger)
	goalService := service.NewGoalService(db, store.NewNoopEmitter(), logger)
	searchService := service.NewSearchService(index, st, logger)

	ctx, cancel := context.WithCancel(context.Background())
	manager := sse.NewManager(logger)
	go manager.Start(ctx)
	t.Cleanup(cancel)

	authenticate := func(r *http.Request) (string, error) {
		token := r.URL.Query().Get("access_token")
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = h[7:]
		}
		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}
	sseHandler := sse.NewHandler(manager, authenticate, logger)
	streamHandler := sse.NewStreamHandler(func(ctx context.Context, ownerID string, status domain.Status) (sse.ShelfSubscription, error) {
		return bookService.Subscribe(ctx, ownerID, status)
	}, authenticate, logger)

	server := NewServer(st, &Services{
		Auth:    authService,
		Session: sessionService,
		Book:    bookService,
		Profile: profileService,
		Reading: readingService,
		Goal:    goalService,
		Search:  searchService,
	}, sseHandler, manager, streamHandler, nil, logger)

	return &apiTestServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
		tokens: tokens,
	}
}

// registerTestUser creates an account through the API and returns its token
// and user ID.
func (ts *apiTestServer) registerTestUser(t *testing.T, email, name string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "contraseña123",
		"name":     name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokens.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

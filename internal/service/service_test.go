package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/auth"
	"github.com/paginoid/paginoid-server/internal/store"
	"github.com/paginoid/paginoid-server/internal/store/sqlite"
)

// testEnv wires the services against temporary storage.
type testEnv struct {
	store    *store.Store
	db       *sqlite.Store
	tokens   *auth.TokenService
	sessions *SessionService
	auth     *AuthService
	books    *BookService
	reading  *ReadingService
	goals    *GoalService
	profiles *ProfileService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "docs"), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	db, err := sqlite.Open(filepath.Join(tmpDir, "timeseries.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokens, nil)
	emitter := store.NewNoopEmitter()

	return &testEnv{
		store:    s,
		db:       db,
		tokens:   tokens,
		sessions: sessions,
		auth:     NewAuthService(s, sessions, nil),
		books:    NewBookService(s, nil),
		reading:  NewReadingService(db, emitter, nil),
		goals:    NewGoalService(db, emitter, nil),
		profiles: NewProfileService(s, emitter, nil),
	}
}

// register creates an account and returns the auth response.
func (env *testEnv) register(t *testing.T, email, name string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "contraseña123",
		Name:     name,
	})
	require.NoError(t, err)
	return resp
}

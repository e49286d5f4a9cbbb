package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword(hash, "secreto123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-real-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("secreto123")
	require.NoError(t, err)
	h2, err := HashPassword("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key := make([]byte, keyBytesSize)
	for i := range key {
		key[i] = byte(i)
	}
	svc, err := NewTokenService(hex.EncodeToString(key), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "usr_abc", Email: "ana@example.com", Name: "Ana"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Contains(t, token, "v4.local.")

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_abc", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "usr_abc", claims.Subject)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)
	_, err := svc.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	key := make([]byte, keyBytesSize)
	svc, err := NewTokenService(hex.EncodeToString(key), -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr_x", Email: "x@example.com"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsShortKey(t *testing.T) {
	_, err := NewTokenService("deadbeef", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestRefreshTokenHashStable(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	h1 := HashRefreshToken(token)
	h2 := HashRefreshToken(token)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, token, h1)
}

func TestLoadOrGenerateKeyPersists(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, keyLength)

	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	info, err := os.Stat(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKeyRejectsCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

package sse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
)

type fakeShelfSub struct {
	ch           chan []*domain.Book
	unsubscribed bool
}

func (s *fakeShelfSub) Snapshots() <-chan []*domain.Book { return s.ch }
func (s *fakeShelfSub) Unsubscribe()                     { s.unsubscribed = true }

func allowUser(userID string) Authenticator {
	return func(*http.Request) (string, error) { return userID, nil }
}

func TestStreamWritesSnapshots(t *testing.T) {
	sub := &fakeShelfSub{ch: make(chan []*domain.Book, 1)}
	var gotStatus domain.Status
	handler := NewStreamHandler(
		func(_ context.Context, ownerID string, status domain.Status) (ShelfSubscription, error) {
			gotStatus = status
			return sub, nil
		},
		allowUser("usr_1"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelf/stream?status=reading", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	sub.ch <- []*domain.Book{{ID: "1700000000001", Title: "Rayuela"}}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, domain.StatusReading, gotStatus)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: shelf.snapshot")
	assert.Contains(t, body, "Rayuela")
	assert.True(t, sub.unsubscribed, "subscription must be torn down when the stream ends")
}

func TestStreamRejectsUnknownStatus(t *testing.T) {
	handler := NewStreamHandler(
		func(context.Context, string, domain.Status) (ShelfSubscription, error) {
			t.Fatal("subscribe must not be called")
			return nil, nil
		},
		allowUser("usr_1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelf/stream?status=shelved", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamRequiresAuth(t *testing.T) {
	handler := NewStreamHandler(
		func(context.Context, string, domain.Status) (ShelfSubscription, error) {
			t.Fatal("subscribe must not be called")
			return nil, nil
		},
		func(*http.Request) (string, error) { return "", errors.New("no token") },
		nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelf/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamEndsWhenStoreCloses(t *testing.T) {
	sub := &fakeShelfSub{ch: make(chan []*domain.Book)}
	handler := NewStreamHandler(
		func(context.Context, string, domain.Status) (ShelfSubscription, error) {
			return sub, nil
		},
		allowUser("usr_1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelf/stream", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	close(sub.ch)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler must return when the subscription channel closes")
	}
}

func TestStreamSnapshotPayload(t *testing.T) {
	event := NewShelfSnapshotEvent("usr_1", domain.StatusToRead, []*domain.Book{
		{ID: "1700000000001", Title: "Rayuela", Author: "Cortázar", Status: domain.StatusToRead},
	})

	require.Equal(t, EventShelfSnapshot, event.Type)
	data, ok := event.Data.(ShelfSnapshotData)
	require.True(t, ok)
	assert.Equal(t, domain.StatusToRead, data.Status)
	require.Len(t, data.Books, 1)
	assert.True(t, strings.HasPrefix(data.Books[0].Title, "Rayuela"))
}

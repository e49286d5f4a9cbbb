package shelf

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/logger"
)

// fakeSub is a hand-driven subscription.
type fakeSub struct {
	ch           chan []*domain.Book
	mu           sync.Mutex
	unsubscribed bool
}

func newFakeSub() *fakeSub {
	return &fakeSub{ch: make(chan []*domain.Book, 1)}
}

func (s *fakeSub) Snapshots() <-chan []*domain.Book { return s.ch }

func (s *fakeSub) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribed {
		return
	}
	s.unsubscribed = true
	close(s.ch)
}

func (s *fakeSub) isUnsubscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribed
}

// push delivers a snapshot synchronously.
func (s *fakeSub) push(books []*domain.Book) {
	s.ch <- books
}

// fakeStore records calls and hands out fakeSubs.
type fakeStore struct {
	mu           sync.Mutex
	subs         []*fakeSub
	subscribeErr error
	createErr    error
	updateErr    error
	deleteErr    error

	created   []*domain.Book
	deleted   []string
	createGo  chan struct{} // if set, Create blocks until closed
	deleteGo  chan struct{} // if set, Delete blocks until closed
	statusLog []domain.Status
}

func (f *fakeStore) Subscribe(_ context.Context, _ string, status domain.Status) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	sub := newFakeSub()
	f.subs = append(f.subs, sub)
	f.statusLog = append(f.statusLog, status)
	return sub, nil
}

func (f *fakeStore) Create(_ context.Context, _ string, book *domain.Book) (*domain.Book, error) {
	if f.createGo != nil {
		<-f.createGo
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *book
	created.ID = "1700000000001"
	f.created = append(f.created, &created)
	return &created, nil
}

func (f *fakeStore) Update(_ context.Context, _ string, _ *domain.Book) error {
	return f.updateErr
}

func (f *fakeStore) Delete(_ context.Context, _ string, bookID string) error {
	if f.deleteGo != nil {
		<-f.deleteGo
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, bookID)
	return nil
}

func (f *fakeStore) lastSub() *fakeSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return nil
	}
	return f.subs[len(f.subs)-1]
}

// fakeConfirmer answers delete confirmations.
type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

// fakeAlerter records alerts.
type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeAlerter) Alert(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// fakeNav records navigations.
type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeNav) NavigateTo(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeNav) visits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Format: "json", Writer: discardWriter{}})
}

var errStoreDown = errors.New("store down")

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

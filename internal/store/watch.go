package store

import (
	"context"
	"sync"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// ShelfSubscription is a live query over one user's shelf filtered by status.
// After every mutation of the owner's shelf the subscriber receives a fresh
// snapshot of the filtered listing on Snapshots. Delivery is latest-wins: if
// the subscriber is slow, intermediate snapshots are dropped and only the
// most recent one is kept.
type ShelfSubscription struct {
	ownerID string
	status  domain.Status

	mu     sync.Mutex
	closed bool
	ch     chan []*domain.Book

	registry *watchRegistry
}

// Snapshots returns the channel on which shelf snapshots are delivered.
// The channel is closed by Unsubscribe.
func (sub *ShelfSubscription) Snapshots() <-chan []*domain.Book {
	return sub.ch
}

// Unsubscribe cancels the live query. It is synchronous: once it returns,
// no further snapshot will be delivered and the Snapshots channel is closed.
// Calling Unsubscribe more than once is safe.
func (sub *ShelfSubscription) Unsubscribe() {
	sub.registry.remove(sub)

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
}

// deliver hands a snapshot to the subscriber, replacing any undelivered one.
// Holding the mutex while sending is safe because the channel has capacity
// one and is drained first, so the send never blocks.
func (sub *ShelfSubscription) deliver(books []*domain.Book) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}

	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- books
}

// watchRegistry tracks the live shelf subscriptions on a store.
type watchRegistry struct {
	mu   sync.Mutex
	subs map[*ShelfSubscription]struct{}
}

func newWatchRegistry() *watchRegistry {
	return &watchRegistry{
		subs: make(map[*ShelfSubscription]struct{}),
	}
}

func (r *watchRegistry) add(sub *ShelfSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub] = struct{}{}
}

func (r *watchRegistry) remove(sub *ShelfSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, sub)
}

// forOwner returns the current subscriptions for a user's shelf.
func (r *watchRegistry) forOwner(ownerID string) []*ShelfSubscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*ShelfSubscription
	for sub := range r.subs {
		if sub.ownerID == ownerID {
			matched = append(matched, sub)
		}
	}
	return matched
}

// closeAll cancels every live subscription. Called on store shutdown.
func (r *watchRegistry) closeAll() {
	r.mu.Lock()
	subs := make([]*ShelfSubscription, 0, len(r.subs))
	for sub := range r.subs {
		subs = append(subs, sub)
	}
	r.subs = make(map[*ShelfSubscription]struct{})
	r.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		if !sub.closed {
			sub.closed = true
			close(sub.ch)
		}
		sub.mu.Unlock()
	}
}

// SubscribeShelf opens a live query over a user's shelf filtered by status.
// The current snapshot is delivered immediately, then a fresh one after
// every mutation of the shelf. The caller must Unsubscribe when done.
func (s *Store) SubscribeShelf(ctx context.Context, ownerID string, status domain.Status) (*ShelfSubscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &ShelfSubscription{
		ownerID:  ownerID,
		status:   status,
		ch:       make(chan []*domain.Book, 1),
		registry: s.watches,
	}

	books, err := s.ListBooksByStatus(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}

	s.watches.add(sub)
	sub.deliver(books)

	return sub, nil
}

// notifyShelfChanged recomputes and delivers snapshots for every live
// subscription on the given user's shelf. Called after each shelf mutation.
func (s *Store) notifyShelfChanged(ownerID string) {
	subs := s.watches.forOwner(ownerID)
	if len(subs) == 0 {
		return
	}

	for _, sub := range subs {
		books, err := s.ListBooksByStatus(context.Background(), ownerID, sub.status)
		if err != nil {
			s.logger.Warn("failed to compute shelf snapshot", "user_id", ownerID, "error", err)
			continue
		}
		sub.deliver(books)
	}
}

// Package shelf implements the client-core shelf flows: the live subscription
// adapter, the gating view-model and the add-book form controller. Everything
// here is written against collaborator interfaces so the same code runs over
// the embedded services or a remote transport.
package shelf

import (
	"context"
	"sync"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/logger"
)

// Subscription is a live shelf query. Snapshots delivers full filtered
// listings; Unsubscribe is synchronous and closes the channel.
type Subscription interface {
	Snapshots() <-chan []*domain.Book
	Unsubscribe()
}

// Store is the document-store surface the adapter writes and subscribes
// through.
type Store interface {
	Subscribe(ctx context.Context, ownerID string, status domain.Status) (Subscription, error)
	Create(ctx context.Context, ownerID string, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, ownerID string, book *domain.Book) error
	Delete(ctx context.Context, ownerID, bookID string) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Alerter surfaces a non-fatal error message to the user.
type Alerter interface {
	Alert(message string)
}

// DeletePrompt is shown before removing a book from the shelf.
const DeletePrompt = "¿Seguro que quieres borrar este libro?"

// Adapter bridges the view layer to the document store. It maintains at most
// one live subscription: establishing a new one tears down the previous one
// first, and late deliveries from a superseded subscription are discarded.
type Adapter struct {
	store     Store
	confirmer Confirmer
	alerter   Alerter
	log       *logger.Logger

	onSnapshot func([]*domain.Book)
	onError    func(error)

	mu       sync.Mutex
	current  Subscription
	deleting map[string]bool
}

// NewAdapter creates an adapter. onSnapshot receives every shelf listing the
// live subscription pushes; onError receives subscription failures.
func NewAdapter(store Store, confirmer Confirmer, alerter Alerter, log *logger.Logger,
	onSnapshot func([]*domain.Book), onError func(error)) *Adapter {
	return &Adapter{
		store:      store,
		confirmer:  confirmer,
		alerter:    alerter,
		log:        log,
		onSnapshot: onSnapshot,
		onError:    onError,
		deleting:   make(map[string]bool),
	}
}

// Subscribe replaces the live subscription with one for the given owner and
// status. The previous subscription, if any, is torn down synchronously
// before the new one is established.
func (a *Adapter) Subscribe(ctx context.Context, ownerID string, status domain.Status) error {
	a.mu.Lock()
	if a.current != nil {
		a.current.Unsubscribe()
		a.current = nil
	}
	a.mu.Unlock()

	sub, err := a.store.Subscribe(ctx, ownerID, status)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeSubscription, "shelf subscription failed")
		a.onError(wrapped)
		return wrapped
	}

	a.mu.Lock()
	a.current = sub
	a.mu.Unlock()

	go a.pump(sub)
	return nil
}

// pump forwards snapshots from one subscription until its channel closes.
// Deliveries from a subscription that is no longer current are dropped.
func (a *Adapter) pump(sub Subscription) {
	for books := range sub.Snapshots() {
		a.mu.Lock()
		stale := a.current != sub
		a.mu.Unlock()
		if stale {
			continue
		}
		a.onSnapshot(books)
	}
}

// Unsubscribe tears down the live subscription, if any.
func (a *Adapter) Unsubscribe() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil {
		a.current.Unsubscribe()
		a.current = nil
	}
}

// Create writes a new book. The shelf listing is not touched here: the
// updated state arrives solely through the subscription push.
func (a *Adapter) Create(ctx context.Context, ownerID string, book *domain.Book) (*domain.Book, error) {
	created, err := a.store.Create(ctx, ownerID, book)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeWrite, "could not save the book")
		a.alerter.Alert(wrapped.Message)
		return nil, wrapped
	}
	return created, nil
}

// Update persists changes to an existing book. Like Create, the refreshed
// listing arrives via the subscription.
func (a *Adapter) Update(ctx context.Context, ownerID string, book *domain.Book) error {
	if err := a.store.Update(ctx, ownerID, book); err != nil {
		wrapped := errors.Wrap(err, errors.CodeWrite, "could not update the book")
		a.alerter.Alert(wrapped.Message)
		return wrapped
	}
	return nil
}

// Delete removes a book after explicit confirmation. While the delete is in
// flight the record is marked busy, blocking duplicate deletes of the same
// record without affecting others. The busy marker is always cleared.
func (a *Adapter) Delete(ctx context.Context, ownerID, bookID string) error {
	a.mu.Lock()
	if a.deleting[bookID] {
		a.mu.Unlock()
		return nil
	}
	a.deleting[bookID] = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.deleting, bookID)
		a.mu.Unlock()
	}()

	if !a.confirmer.Confirm(DeletePrompt) {
		return nil
	}

	if err := a.store.Delete(ctx, ownerID, bookID); err != nil {
		wrapped := errors.Wrap(err, errors.CodeWrite, "could not delete the book")
		a.alerter.Alert(wrapped.Message)
		return wrapped
	}
	return nil
}

// Deleting reports whether a delete of the given record is in flight.
func (a *Adapter) Deleting(bookID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deleting[bookID]
}

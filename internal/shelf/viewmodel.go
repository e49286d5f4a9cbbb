package shelf

import (
	"context"
	"sync"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/logger"
	"github.com/paginoid/paginoid-server/internal/session"
)

// GateState is the shelf's authentication gate.
type GateState int

const (
	// GateResolving means the session has not resolved yet. Nothing renders.
	GateResolving GateState = iota
	// GateUnauthenticated means the session resolved without an identity.
	GateUnauthenticated
	// GateAuthenticated means a signed-in user is present.
	GateAuthenticated
)

// String returns the gate state name.
func (g GateState) String() string {
	switch g {
	case GateResolving:
		return "resolving"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Navigator performs route changes on behalf of the view-model.
type Navigator interface {
	NavigateTo(path string)
}

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// ViewModel drives the shelf screen: the authentication gate, the active tab
// filter and the list content. The redirect to the login page is a side
// effect of the transition into GateUnauthenticated — it fires exactly once
// per transition and is never re-evaluated per render.
type ViewModel struct {
	nav     Navigator
	adapter *Adapter
	log     *logger.Logger

	mu      sync.Mutex
	state   GateState
	ownerID string
	tab     domain.Status
	books   []*domain.Book
	subErr  error
}

// NewViewModel creates a shelf view-model wired to its adapter. The initial
// tab filter is ToRead, matching the first tab of the shelf screen.
func NewViewModel(nav Navigator, store Store, confirmer Confirmer, alerter Alerter, log *logger.Logger) *ViewModel {
	vm := &ViewModel{
		nav: nav,
		log: log,
		tab: domain.StatusToRead,
	}
	vm.adapter = NewAdapter(store, confirmer, alerter, log, vm.applySnapshot, vm.applySubscriptionError)
	return vm
}

// Adapter exposes the underlying adapter for write flows (create, delete).
func (vm *ViewModel) Adapter() *Adapter {
	return vm.adapter
}

// ApplySession advances the gate from a session state change.
func (vm *ViewModel) ApplySession(ctx context.Context, s session.State) {
	vm.mu.Lock()

	var next GateState
	switch {
	case s.Loading:
		next = GateResolving
	case s.Authenticated():
		next = GateAuthenticated
	default:
		next = GateUnauthenticated
	}

	prev := vm.state
	if next == prev {
		vm.mu.Unlock()
		return
	}
	vm.state = next

	switch next {
	case GateUnauthenticated:
		// Leaving the shelf: drop data and subscription, then redirect.
		// A later Authenticated -> Unauthenticated transition fires the
		// redirect again.
		vm.ownerID = ""
		vm.books = nil
		vm.subErr = nil
		vm.mu.Unlock()

		vm.adapter.Unsubscribe()
		vm.nav.NavigateTo(LoginPath)

	case GateAuthenticated:
		vm.ownerID = s.Identity.ID
		ownerID := vm.ownerID
		tab := vm.tab
		vm.mu.Unlock()

		if err := vm.adapter.Subscribe(ctx, ownerID, tab); err != nil {
			vm.log.Warn("shelf subscription failed", "user_id", ownerID, "error", err)
		}

	default:
		vm.mu.Unlock()
	}
}

// SetTab switches the active status filter. While authenticated this
// re-subscribes: the previous live query is torn down before the new one is
// established.
func (vm *ViewModel) SetTab(ctx context.Context, status domain.Status) {
	if !status.IsValid() {
		return
	}

	vm.mu.Lock()
	vm.tab = status
	authenticated := vm.state == GateAuthenticated
	ownerID := vm.ownerID
	vm.mu.Unlock()

	if !authenticated {
		return
	}

	if err := vm.adapter.Subscribe(ctx, ownerID, status); err != nil {
		vm.log.Warn("shelf subscription failed", "user_id", ownerID, "error", err)
	}
}

// Tab returns the active status filter.
func (vm *ViewModel) Tab() domain.Status {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.tab
}

// State returns the gate state.
func (vm *ViewModel) State() GateState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Books returns the current shelf listing. It is nil until the gate is
// authenticated and the first snapshot has arrived, and nil again after a
// subscription error.
func (vm *ViewModel) Books() []*domain.Book {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.books
}

// Err returns the current subscription error, if any.
func (vm *ViewModel) Err() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.subErr
}

// applySnapshot replaces the listing with a fresh snapshot and clears any
// prior subscription error.
func (vm *ViewModel) applySnapshot(books []*domain.Book) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.state != GateAuthenticated {
		return
	}
	vm.books = books
	vm.subErr = nil
}

// applySubscriptionError replaces the listing with an error state.
func (vm *ViewModel) applySubscriptionError(err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.books = nil
	vm.subErr = err
}

// Close tears down the live subscription.
func (vm *ViewModel) Close() {
	vm.adapter.Unsubscribe()
}

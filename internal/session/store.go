// Package session holds the client-core session state: the current identity,
// whether it has resolved yet, and fan-out to observers. It is written against
// the identity-provider and profile-store interfaces only, so it works the
// same against the embedded services or a remote backend.
package session

import (
	"context"
	"sync"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/logger"
)

// IdentityProvider is the authentication surface the session store observes.
// OnAuthChange registers a listener that is invoked with the new identity
// (nil on sign-out) after every authentication change, and returns a
// deregistration function.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	OnAuthChange(fn func(*domain.Identity)) (cancel func())
}

// ProfileStore reads the users/{id} profile document.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// State is an immutable snapshot of the session.
// Loading is true until the first authentication resolution arrives.
type State struct {
	Identity *domain.Identity
	Loading  bool
}

// Authenticated reports whether a signed-in identity is present.
func (s State) Authenticated() bool {
	return s.Identity.Authenticated()
}

// DisplayName returns the resolved display name, or the default when the
// session is anonymous.
func (s State) DisplayName() string {
	if s.Identity == nil || s.Identity.DisplayName == "" {
		return domain.DefaultDisplayName
	}
	return s.Identity.DisplayName
}

// Observer is notified with a fresh State after every session change.
type Observer func(State)

// Store tracks the current session. It registers with the identity provider
// at construction and resolves each notification by fetching the user's
// profile document for the display name. A profile fetch failure never blocks
// authentication; it is logged and the fallback name chain applies.
type Store struct {
	provider IdentityProvider
	profiles ProfileStore
	log      *logger.Logger

	mu           sync.Mutex
	identity     *domain.Identity
	loading      bool
	closed       bool
	cancel       func()
	observers    map[int]Observer
	nextObserver int
}

// NewStore creates a session store and registers it with the provider.
// The store starts in the loading state until the first notification arrives.
func NewStore(provider IdentityProvider, profiles ProfileStore, log *logger.Logger) *Store {
	s := &Store{
		provider:  provider,
		profiles:  profiles,
		log:       log,
		loading:   true,
		observers: make(map[int]Observer),
	}
	s.cancel = provider.OnAuthChange(s.handleAuthChange)
	return s
}

// Current returns the current session state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Identity: s.identity, Loading: s.loading}
}

// Subscribe registers an observer for session changes and returns a
// deregistration function. The observer is not called with the current state.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Close deregisters from the identity provider. After Close returns, no
// further state changes or observer notifications occur.
func (s *Store) Close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// handleAuthChange resolves a provider notification into session state.
func (s *Store) handleAuthChange(ident *domain.Identity) {
	if ident != nil {
		ident = s.resolveDisplayName(ident)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.identity = ident
	s.loading = false

	state := State{Identity: s.identity, Loading: false}
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// resolveDisplayName fetches the profile document and applies the fallback
// chain: profile name, then provider email, then the default name.
func (s *Store) resolveDisplayName(ident *domain.Identity) *domain.Identity {
	resolved := *ident

	profile, err := s.profiles.GetUserProfile(context.Background(), ident.ID)
	if err != nil {
		s.log.Warn("failed to fetch profile, falling back to provider identity",
			"user_id", ident.ID, "error", err)
		profile = nil
	}

	switch {
	case profile != nil && profile.Name != "":
		resolved.DisplayName = profile.Name
	case resolved.Email != "":
		resolved.DisplayName = resolved.Email
	default:
		resolved.DisplayName = domain.DefaultDisplayName
	}

	return &resolved
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/paginoid/paginoid-server/internal/auth"
	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/id"
	"github.com/paginoid/paginoid-server/internal/store"
	"github.com/paginoid/paginoid-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// AuthService handles registration, login and logout. It also implements
// session.IdentityProvider so the embedded session store observes every
// authentication change without going over the wire. Session lifecycle
// (tokens, rotation) is delegated to SessionService.
type AuthService struct {
	store    *store.Store
	sessions *SessionService
	logger   *slog.Logger

	mu            sync.Mutex
	listeners     map[int]func(*domain.Identity)
	nextListener  int
	activeSession string // session created by the embedded SignUp/SignIn flows
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, sessions *SessionService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthService{
		store:     store,
		sessions:  sessions,
		logger:    logger,
		listeners: make(map[int]func(*domain.Identity)),
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Name      string `json:"name" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Register creates a new account, writes the users/{id} profile document and
// opens the first session.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if len(req.Password) < auth.MinPasswordLength {
		return nil, domainerrors.WeakPassword("la contraseña es demasiado débil")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("el correo ya está en uso")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The profile document is what clients read back for the display name.
	profile := &domain.Profile{
		UserID:    userID,
		Name:      req.Name,
		Email:     user.Email,
		CreatedAt: now,
	}
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	sessionResp, err := s.sessions.CreateSession(ctx, user, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", userID,
		"email", user.Email,
	)

	s.broadcast(identityOf(user), sessionResp.SessionID)

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and opens a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether the email exists
			return nil, domainerrors.InvalidCredentials("correo o contraseña incorrectos")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("correo o contraseña incorrectos")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		s.logger.Warn("failed to update last login time",
			"user_id", user.ID,
			"error", err,
		)
	}

	sessionResp, err := s.sessions.CreateSession(ctx, user, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	s.broadcast(identityOf(user), sessionResp.SessionID)

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout ends the given session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.broadcast(nil, "")
	return nil
}

// VerifyAccessToken validates an access token and returns the owning user
// along with the token claims. Used by the HTTP auth middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.sessions.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("usuario no encontrado").WithCause(err)
	}

	return user, claims, nil
}

// SignUp implements session.IdentityProvider for the embedded client core.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*domain.Identity, error) {
	resp, err := s.Register(ctx, RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	return identityOf(resp.User), nil
}

// SignIn implements session.IdentityProvider.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	resp, err := s.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return identityOf(resp.User), nil
}

// SignOut implements session.IdentityProvider. It ends the session opened by
// the last SignUp or SignIn, if any, and always notifies listeners.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	sessionID := s.activeSession
	s.mu.Unlock()

	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			return err
		}
	}
	s.broadcast(nil, "")
	return nil
}

// OnAuthChange registers a listener notified with the new identity (nil on
// sign-out) after every authentication change. The returned function
// deregisters it.
func (s *AuthService) OnAuthChange(fn func(*domain.Identity)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listenerID := s.nextListener
	s.nextListener++
	s.listeners[listenerID] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, listenerID)
	}
}

// broadcast records the active session and notifies listeners outside the lock.
func (s *AuthService) broadcast(identity *domain.Identity, sessionID string) {
	s.mu.Lock()
	s.activeSession = sessionID
	fns := make([]func(*domain.Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func identityOf(user *domain.User) *domain.Identity {
	return &domain.Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/sse"
	"github.com/paginoid/paginoid-server/internal/store"
)

// ProfileService manages the public users/{id} profile documents.
type ProfileService struct {
	store  *store.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, events store.EventEmitter, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProfileService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// Get returns a user's profile document.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// Update changes a user's display name and mirrors it on the account record
// so freshly issued tokens carry the new name.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Name = req.Name

	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err == nil {
		user.Name = req.Name
		user.Touch()
		if err := s.store.UpdateUser(ctx, user); err != nil {
			s.logger.Warn("failed to mirror name on account",
				"user_id", userID,
				"error", err,
			)
		}
	}

	s.events.Emit(sse.NewProfileUpdatedEvent(profile))

	s.logger.Info("profile updated", "user_id", userID)
	return profile, nil
}

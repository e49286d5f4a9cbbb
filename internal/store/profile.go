package store

import (
	"context"
	"errors"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// ErrProfileNotFound is returned when a user profile is not found.
var ErrProfileNotFound = errors.New("profile not found")

// GetUserProfile retrieves a user's profile document.
// Returns ErrProfileNotFound if no profile exists.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveUserProfile creates or updates a user's profile document.
func (s *Store) SaveUserProfile(ctx context.Context, profile *domain.Profile) error {
	return s.Profiles.Put(ctx, profile.UserID, profile)
}

// DeleteUserProfile removes a user's profile document.
func (s *Store) DeleteUserProfile(ctx context.Context, userID string) error {
	return s.Profiles.Delete(ctx, userID)
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=120"`
}

type bookRequest struct {
	Title  string `json:"title" validate:"required"`
	Status string `json:"status" validate:"required,book_status"`
	Rating int    `json:"rating" validate:"gte=0,lte=5"`
}

func TestValidateSuccess(t *testing.T) {
	v := New()
	err := v.Validate(signUpRequest{Email: "ana@example.com", Password: "hunter22"})
	assert.NoError(t, err)
}

func TestValidateFieldErrors(t *testing.T) {
	v := New()
	err := v.Validate(signUpRequest{Email: "not-an-email", Password: "abc"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
}

func TestValidateBookStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(bookRequest{Title: "Rayuela", Status: "reading", Rating: 4}))

	err := v.Validate(bookRequest{Title: "Rayuela", Status: "wishlist"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	fields := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be a valid shelf status", fields["status"])
}

func TestValidateRatingBounds(t *testing.T) {
	v := New()
	err := v.Validate(bookRequest{Title: "Rayuela", Status: "read", Rating: 6})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	fields := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be less than or equal to 5", fields["rating"])
}

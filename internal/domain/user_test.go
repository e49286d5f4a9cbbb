package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileDisplayName(t *testing.T) {
	p := &Profile{Name: "Jocelyn", Email: "jocelyn@example.com"}
	assert.Equal(t, "Jocelyn", p.DisplayName())

	p.Name = ""
	assert.Equal(t, "jocelyn@example.com", p.DisplayName())

	p.Email = ""
	assert.Equal(t, DefaultDisplayName, p.DisplayName())

	var missing *Profile
	assert.Equal(t, DefaultDisplayName, missing.DisplayName())
}

func TestIdentityAuthenticated(t *testing.T) {
	var absent *Identity
	assert.False(t, absent.Authenticated())

	assert.False(t, (&Identity{}).Authenticated())
	assert.True(t, (&Identity{ID: "user-1"}).Authenticated())
}

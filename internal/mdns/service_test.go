package mdns

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	t.Run("service type is correct", func(t *testing.T) {
		assert.Equal(t, "_paginoid._tcp", ServiceType)
	})

	t.Run("API version is v1", func(t *testing.T) {
		assert.Equal(t, "v1", APIVersion)
	})

	t.Run("server version is set", func(t *testing.T) {
		assert.NotEmpty(t, ServerVersion)
	})
}

func TestStopWithoutStart(t *testing.T) {
	s := NewService(slog.New(slog.DiscardHandler))
	// Stop on a never-started service must be a no-op.
	s.Stop()
	s.Stop()
	assert.Nil(t, s.server)
}

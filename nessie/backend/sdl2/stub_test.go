//go:build !sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/backend"
)

func TestStubBackend(t *testing.T) {
	b := New()
	var _ backend.Backend = b
	var _ backend.ActionHandler = b

	assert.ErrorIs(t, b.Init(backend.BackendConfig{Title: "test"}), ErrUnavailable)
	_, err := b.Update(nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, b.Cleanup())
	assert.Equal(t, audio.Discard, b.AudioSink())
}

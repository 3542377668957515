package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		t.Run(lvl, func(t *testing.T) {
			log, err := New(lvl)
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.NotPanics(t, func() {
				log.Infow("test log", "level", lvl)
			})
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("not-a-level")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Errorw("nop logger test")
	})
}

package hardware

import (
	"errors"
	"testing"

	"mappo-toolkit/internal/domain/failures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLease_Exclusive(t *testing.T) {
	l := NewLease("camera")

	require.NoError(t, l.Acquire("capture"))
	require.NoError(t, l.Acquire("capture"))

	err := l.Acquire("scanner")
	assert.True(t, errors.Is(err, failures.ErrHardwareUnavailable))
	assert.Contains(t, err.Error(), "held by capture")

	// sólo el dueño libera
	l.Release("scanner")
	assert.Equal(t, "capture", l.Owner())

	l.Release("capture")
	assert.Equal(t, "", l.Owner())
	assert.NoError(t, l.Acquire("scanner"))
}

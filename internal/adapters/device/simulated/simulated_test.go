package simulated

import (
	"context"
	"testing"

	"mappo-toolkit/internal/ports/device"
	"mappo-toolkit/internal/ports/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionProvider_DefaultsToGranted(t *testing.T) {
	ctx := context.Background()
	p := NewPermissionProvider(map[permissions.Capability]bool{permissions.Calendar: false})

	st, err := p.Status(ctx, permissions.Camera)
	require.NoError(t, err)
	assert.False(t, st)

	ok, err := p.Request(ctx, permissions.Camera)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Request(ctx, permissions.Calendar)
	require.NoError(t, err)
	assert.False(t, ok)

	st, _ = p.Status(ctx, permissions.Camera)
	assert.True(t, st)
	assert.Equal(t, 1, p.Requests(permissions.Camera))
}

func TestPermissionProvider_SetAnswerChangesStatus(t *testing.T) {
	ctx := context.Background()
	p := NewPermissionProvider(nil)

	p.SetAnswer(permissions.MediaLibrary, true)
	st, _ := p.Status(ctx, permissions.MediaLibrary)
	assert.True(t, st)
	assert.Zero(t, p.Requests(permissions.MediaLibrary))
}

func TestPermissionProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPermissionProvider(nil)
	_, err := p.Request(ctx, permissions.Camera)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.Requests(permissions.Camera))
}

func TestCamera(t *testing.T) {
	ctx := context.Background()
	c := NewCamera("file:///tmp")

	p1, err := c.TakePicture(ctx, device.CaptureOptions{Quality: 0.7})
	require.NoError(t, err)
	p2, err := c.TakePicture(ctx, device.CaptureOptions{Quality: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/IMG_0001.jpg", p1.URI)
	assert.Equal(t, "file:///tmp/IMG_0002.jpg", p2.URI)

	c.SetBroken(true)
	_, err = c.TakePicture(ctx, device.CaptureOptions{})
	require.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestOpener(t *testing.T) {
	ctx := context.Background()
	o := NewOpener()

	ok, err := o.CanOpen(ctx, "https://example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = o.CanOpen(ctx, "whatsapp://send?phone=1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, o.Open(ctx, "tel:123"))
	assert.Equal(t, []string{"tel:123"}, o.Opened())
	assert.Len(t, o.Probes(), 2)

	wa := NewOpener("WhatsApp")
	ok, _ = wa.CanOpen(ctx, "whatsapp://send?phone=1")
	assert.True(t, ok)
}

package simulated

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mappo-toolkit/internal/ports/device"
)

var ErrCameraUnavailable = errors.New("simulated camera unavailable")

// Camera devuelve URIs file:// numeradas.
type Camera struct {
	mu     sync.Mutex
	prefix string
	seq    int
	broken bool
}

func NewCamera(prefix string) *Camera {
	if prefix == "" {
		prefix = "file:///data/mappo/photos"
	}
	return &Camera{prefix: prefix}
}

func (c *Camera) TakePicture(ctx context.Context, _ device.CaptureOptions) (device.Picture, error) {
	if err := ctx.Err(); err != nil {
		return device.Picture{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return device.Picture{}, ErrCameraUnavailable
	}
	c.seq++
	return device.Picture{URI: fmt.Sprintf("%s/IMG_%04d.jpg", c.prefix, c.seq)}, nil
}

func (c *Camera) SetBroken(b bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = b
}

package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// GalleryRepo implementa device.GallerySink guardando las URIs en memoria.
type GalleryRepo struct {
	mu    sync.RWMutex
	saved []string
}

func NewGalleryRepo() *GalleryRepo {
	return &GalleryRepo{}
}

func (r *GalleryRepo) Save(ctx context.Context, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return errors.New("uri required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, uri)
	return nil
}

func (r *GalleryRepo) Saved() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.saved...)
}

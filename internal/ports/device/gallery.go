package device

import "context"

// GallerySink persiste una foto en la galería del dispositivo.
type GallerySink interface {
	Save(ctx context.Context, uri string) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// GalleryRepo implementa device.GallerySink sobre la tabla gallery_items.
type GalleryRepo struct {
	db       *sql.DB
	deviceID string
}

func NewGalleryRepo(db *sql.DB, deviceID string) *GalleryRepo {
	return &GalleryRepo{db: db, deviceID: strings.TrimSpace(deviceID)}
}

func (r *GalleryRepo) Save(ctx context.Context, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return errors.New("uri required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gallery_items (device_id, uri) VALUES ($1, $2)
	`, r.deviceID, uri)
	return err
}

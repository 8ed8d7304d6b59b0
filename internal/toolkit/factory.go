package toolkit

import (
	"context"
	"database/sql"

	"mappo-toolkit/internal/adapters/device/bridge"
	"mappo-toolkit/internal/adapters/device/simulated"
	mem "mappo-toolkit/internal/adapters/storage/memory"
	pg "mappo-toolkit/internal/adapters/storage/postgres"
)

// SimulatedPorts arma un dispositivo falso en proceso (modo dev).
// Calendario y galería quedan en memoria.
func SimulatedPorts() PortsFactory {
	return func(ctx context.Context, deviceID string) (Ports, error) {
		return Ports{
			Permissions: simulated.NewPermissionProvider(nil),
			Camera:      simulated.NewCamera(""),
			Gallery:     mem.NewGalleryRepo(),
			Opener:      simulated.NewOpener(),
			Calendar:    mem.NewCalendarRepo(),
		}, nil
	}
}

// BridgePorts usa el puente nativo para todos los puertos.
func BridgePorts(c *bridge.Client) PortsFactory {
	return func(ctx context.Context, deviceID string) (Ports, error) {
		dc := c.ForDevice(deviceID)
		return Ports{
			Permissions: dc,
			Camera:      dc,
			Gallery:     dc,
			Opener:      dc,
			Calendar:    dc,
		}, nil
	}
}

// WithPostgres reemplaza calendario y galería por tablas en Postgres.
func WithPostgres(base PortsFactory, db *sql.DB) PortsFactory {
	return func(ctx context.Context, deviceID string) (Ports, error) {
		p, err := base(ctx, deviceID)
		if err != nil {
			return Ports{}, err
		}
		cal := pg.NewCalendarRepo(db, deviceID)
		if err := cal.EnsureDefaultCalendar(ctx); err != nil {
			return Ports{}, err
		}
		p.Calendar = cal
		p.Gallery = pg.NewGalleryRepo(db, deviceID)
		return p, nil
	}
}

// Package toolkit arma, por dispositivo, el gate de permisos, las sesiones de
// captura y escaneo, el agendado y la pantalla principal sobre un mismo
// conjunto de puertos.
package toolkit

import (
	"time"

	"mappo-toolkit/internal/domain/capture"
	"mappo-toolkit/internal/domain/comms"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/hardware"
	"mappo-toolkit/internal/domain/home"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/domain/photos"
	"mappo-toolkit/internal/domain/scan"
	"mappo-toolkit/internal/domain/schedule"
	"mappo-toolkit/internal/platform/config"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/calendar"
	"mappo-toolkit/internal/ports/device"
	portperm "mappo-toolkit/internal/ports/permissions"
)

// Ports son los colaboradores externos de un dispositivo.
type Ports struct {
	Permissions portperm.Provider
	Camera      device.Camera
	Gallery     device.GallerySink
	Opener      device.URLOpener
	Calendar    calendar.Provider
}

type Settings struct {
	ScanCooldown   time.Duration
	ScanCapability portperm.Capability
	CaptureQuality float64
	StrictWritable bool
	Location       *time.Location
	EventNotes     string
	Platform       string
	UpcomingWindow time.Duration
	Now            func() time.Time
}

func SettingsFromConfig(cfg config.Config) Settings {
	capab := portperm.Camera
	if cfg.ScanCapability == string(portperm.Scanner) {
		capab = portperm.Scanner
	}
	return Settings{
		ScanCooldown:   cfg.ScanCooldown,
		ScanCapability: capab,
		CaptureQuality: cfg.CaptureQuality,
		StrictWritable: cfg.CalendarStrictWritable,
		Location:       cfg.CalendarLocation,
		EventNotes:     cfg.EventNotes,
		Platform:       cfg.Platform,
		UpcomingWindow: cfg.UpcomingWindow,
	}
}

// Workspace es el equivalente a la app abierta en un dispositivo.
// La colección de fotos es de Home; captura sólo la recibe como sink.
type Workspace struct {
	DeviceID string

	Gate     *permissions.Gate
	Handoff  *handoff.Service
	Camera   *capture.Session
	Scanner  *scan.Session
	Schedule *schedule.Service
	Comms    *comms.Service
	Home     *home.Service
}

func NewWorkspace(deviceID string, p Ports, s Settings, log logger.Logger) *Workspace {
	log = logger.OrNop(log).With(map[string]any{"device_id": deviceID})
	now := s.Now
	if now == nil {
		now = time.Now
	}

	gate := permissions.NewGate(p.Permissions, log)
	lease := hardware.NewLease("camera")
	ho := handoff.NewService(handoff.Sinks{
		Gallery:  p.Gallery,
		Calendar: p.Calendar,
		Opener:   p.Opener,
	}, log)

	sched := schedule.NewService(schedule.Deps{
		Gate:           gate,
		Calendars:      p.Calendar,
		Handoff:        ho,
		Validator:      schedule.NewValidator(s.Location),
		StrictWritable: s.StrictWritable,
		Notes:          s.EventNotes,
		Window:         s.UpcomingWindow,
		Now:            now,
		Log:            log,
	})

	collection := photos.NewCollection()
	hm := home.NewService(collection, sched, log)

	cam := capture.NewSession(capture.Deps{
		Gate:    gate,
		Camera:  p.Camera,
		Handoff: ho,
		Photos:  collection,
		Lease:   lease,
		Quality: s.CaptureQuality,
		Now:     now,
		Log:     log,
	})

	scanner := scan.NewSession(scan.Deps{
		Gate:       gate,
		Handoff:    ho,
		Lease:      lease,
		Capability: s.ScanCapability,
		Cooldown:   s.ScanCooldown,
		Now:        now,
		Log:        log,
	})

	return &Workspace{
		DeviceID: deviceID,
		Gate:     gate,
		Handoff:  ho,
		Camera:   cam,
		Scanner:  scanner,
		Schedule: sched,
		Comms:    comms.NewService(ho, s.Platform, log),
		Home:     hm,
	}
}

// Close libera el hardware de las sesiones abiertas.
func (w *Workspace) Close() {
	w.Camera.Deactivate()
	w.Scanner.Stop()
}

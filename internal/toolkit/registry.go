package toolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mappo-toolkit/internal/domain/capture"
	"mappo-toolkit/internal/domain/comms"
	"mappo-toolkit/internal/domain/home"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/domain/scan"
	"mappo-toolkit/internal/domain/schedule"
	"mappo-toolkit/internal/middleware"
	"mappo-toolkit/internal/platform/logger"
)

var ErrNoDevice = errors.New("device id required")

// PortsFactory crea los puertos de un dispositivo la primera vez que aparece.
type PortsFactory func(ctx context.Context, deviceID string) (Ports, error)

// Registry mantiene un Workspace por dispositivo, creado bajo demanda.
type Registry struct {
	mu       sync.Mutex
	factory  PortsFactory
	settings Settings
	log      logger.Logger
	byID     map[string]*Workspace
}

func NewRegistry(factory PortsFactory, s Settings, log logger.Logger) *Registry {
	return &Registry{
		factory:  factory,
		settings: s,
		log:      logger.OrNop(log),
		byID:     map[string]*Workspace{},
	}
}

func (r *Registry) Get(ctx context.Context, deviceID string) (*Workspace, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrNoDevice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.byID[deviceID]; ok {
		return w, nil
	}

	p, err := r.factory(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("device ports: %w", err)
	}
	w := NewWorkspace(deviceID, p, r.settings, r.log)
	r.byID[deviceID] = w
	r.log.Info("workspace created", map[string]any{"device_id": deviceID})
	return w, nil
}

// Forget cierra y descarta el workspace (el dispositivo cerró la app).
func (r *Registry) Forget(deviceID string) {
	r.mu.Lock()
	w, ok := r.byID[deviceID]
	delete(r.byID, deviceID)
	r.mu.Unlock()

	if ok {
		w.Close()
	}
}

func (r *Registry) fromContext(ctx context.Context) (*Workspace, error) {
	id, ok := middleware.DeviceID(ctx)
	if !ok {
		return nil, ErrNoDevice
	}
	return r.Get(ctx, id)
}

// Los métodos siguientes satisfacen los lookups de cada handler.

func (r *Registry) PermissionGate(ctx context.Context) (*permissions.Gate, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Gate, nil
}

func (r *Registry) CaptureSession(ctx context.Context) (*capture.Session, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Camera, nil
}

func (r *Registry) ScanSession(ctx context.Context) (*scan.Session, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Scanner, nil
}

func (r *Registry) ScheduleService(ctx context.Context) (*schedule.Service, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Schedule, nil
}

func (r *Registry) CommsService(ctx context.Context) (*comms.Service, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Comms, nil
}

func (r *Registry) HomeService(ctx context.Context) (*home.Service, error) {
	w, err := r.fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return w.Home, nil
}

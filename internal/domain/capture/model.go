package capture

import (
	"context"
	"time"

	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/photos"
	"mappo-toolkit/internal/ports/permissions"
)

type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StatePreview   State = "preview"
	StateResolving State = "resolving"
	StateResolved  State = "resolved"
)

// Permisos que deben estar concedidos antes de entrar a Active.
var requiredCapabilities = []permissions.Capability{
	permissions.Camera,
	permissions.MediaLibrary,
}

// PermissionGate evita importar el paquete de dominio de permisos completo.
type PermissionGate interface {
	EnsureAll(ctx context.Context, caps ...permissions.Capability) error
}

type Deliverer interface {
	Deliver(ctx context.Context, kind handoff.Kind, p handoff.Payload) handoff.Result
}

// ArtifactSink es la colección dueña de las fotos (la pantalla principal).
type ArtifactSink interface {
	Prepend(a photos.Artifact) error
}

type HardwareLease interface {
	Acquire(owner string) error
	Release(owner string)
}

type IDGenerator interface {
	New(uri string, capturedAt time.Time) string
}

// Snapshot es la vista de sólo lectura para la UI.
type Snapshot struct {
	State       State
	Preview     *photos.Artifact
	Pending     string
	LastError   error
	LastGallery *handoff.Result
}

// Confirmation es el resultado de confirmar una vista previa.
type Confirmation struct {
	Artifact photos.Artifact
	Gallery  handoff.Result
}

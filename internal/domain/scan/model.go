package scan

import (
	"context"
	"time"

	"mappo-toolkit/internal/domain/handoff"
	domainperm "mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/ports/permissions"
)

type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateLocked   State = "locked"
)

type PayloadKind string

const (
	KindLink PayloadKind = "link"
	KindText PayloadKind = "text"
)

// DefaultCooldown coincide con la ventana de bloqueo de la app móvil.
const (
	DefaultCooldown = 1200 * time.Millisecond
	MinCooldown     = time.Second
)

// Result es el último código aceptado. Payload se guarda tal cual llegó.
type Result struct {
	Payload   string
	CodeType  string
	ScannedAt time.Time
	Kind      PayloadKind
}

// Recognition es lo que recibe la UI por cada evento aceptado.
// Link es nil para texto opaco.
type Recognition struct {
	Result Result
	Link   *handoff.Result
}

type PermissionGate interface {
	Ensure(ctx context.Context, c permissions.Capability) (domainperm.Status, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, kind handoff.Kind, p handoff.Payload) handoff.Result
}

type HardwareLease interface {
	Acquire(owner string) error
	Release(owner string)
}

type Snapshot struct {
	State       State
	LockedUntil time.Time
	LastResult  *Result
	LastLink    *handoff.Result
}

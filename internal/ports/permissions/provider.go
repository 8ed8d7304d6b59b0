package permissions

import "context"

// Provider es el proveedor de permisos del SO.
// Request puede bloquear mientras el diálogo del sistema está abierto.
type Provider interface {
	Status(ctx context.Context, c Capability) (granted bool, err error)
	Request(ctx context.Context, c Capability) (granted bool, err error)
}

// Package hardware modela el recurso físico de cámara como un lease exclusivo.
package hardware

import (
	"fmt"
	"sync"

	"mappo-toolkit/internal/domain/failures"
)

// Lease permite como máximo un dueño activo a la vez.
type Lease struct {
	mu    sync.Mutex
	name  string
	owner string
}

func NewLease(name string) *Lease {
	return &Lease{name: name}
}

// Acquire es idempotente para el mismo dueño.
func (l *Lease) Acquire(owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.owner == "" || l.owner == owner {
		l.owner = owner
		return nil
	}
	return fmt.Errorf("%w: %s held by %s", failures.ErrHardwareUnavailable, l.name, l.owner)
}

// Release no hace nada si owner no es el dueño actual.
func (l *Lease) Release(owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.owner == owner {
		l.owner = ""
	}
}

func (l *Lease) Owner() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

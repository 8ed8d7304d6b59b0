package scan

import (
	"sync"
	"time"
)

// Debouncer es el bloqueo temporizado: tras aceptar un evento descarta todo
// hasta que pasa cooldown. No depende de si el escáner está visible.
type Debouncer struct {
	mu          sync.Mutex
	cooldown    time.Duration
	now         func() time.Time
	lockedUntil time.Time
}

func NewDebouncer(cooldown time.Duration, now func() time.Time) *Debouncer {
	if cooldown < MinCooldown {
		cooldown = MinCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Debouncer{cooldown: cooldown, now: now}
}

// Accept devuelve true y bloquea si la ventana anterior ya venció.
func (d *Debouncer) Accept() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.now()
	if t.Before(d.lockedUntil) {
		return t, false
	}
	d.lockedUntil = t.Add(d.cooldown)
	return t, true
}

func (d *Debouncer) Locked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now().Before(d.lockedUntil)
}

func (d *Debouncer) LockedUntil() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lockedUntil
}

func (d *Debouncer) Cooldown() time.Duration { return d.cooldown }

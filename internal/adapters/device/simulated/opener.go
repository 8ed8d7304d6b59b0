package simulated

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// DefaultSchemes son los que un teléfono típico sabe abrir sin apps extra.
var DefaultSchemes = []string{"https", "http", "tel", "sms"}

// Opener abre URLs cuyo scheme esté permitido y registra lo abierto.
type Opener struct {
	mu      sync.Mutex
	schemes map[string]struct{}
	opened  []string
	probes  []string
}

func NewOpener(schemes ...string) *Opener {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	m := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		m[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &Opener{schemes: m}
}

func (o *Opener) CanOpen(_ context.Context, raw string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.probes = append(o.probes, raw)
	u, err := url.Parse(raw)
	if err != nil {
		return false, nil
	}
	_, ok := o.schemes[strings.ToLower(u.Scheme)]
	return ok, nil
}

func (o *Opener) Open(_ context.Context, raw string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, raw)
	return nil
}

func (o *Opener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

func (o *Opener) Probes() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.probes...)
}

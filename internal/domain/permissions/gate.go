package permissions

import (
	"context"
	"fmt"
	"sync"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/platform/logger"
	ports "mappo-toolkit/internal/ports/permissions"
)

// Gate normaliza "chequear o pedir" para cualquier permiso binario.
// El estado vive sólo mientras vive el proceso.
type Gate struct {
	mu       sync.Mutex
	provider ports.Provider
	statuses map[ports.Capability]Status
	// un diálogo abierto por capability; los Ensure concurrentes esperan su resultado
	inflight map[ports.Capability]*request
	log      logger.Logger
}

type request struct {
	done   chan struct{}
	status Status
	err    error
}

func NewGate(provider ports.Provider, log logger.Logger) *Gate {
	return &Gate{
		provider: provider,
		statuses: map[ports.Capability]Status{},
		inflight: map[ports.Capability]*request{},
		log:      logger.OrNop(log).With(map[string]any{"component": "permission_gate"}),
	}
}

// Ensure devuelve Granted sin tocar el provider si ya estaba concedido.
// Si no, hace exactamente un Request. Denied nunca se reintenta solo:
// el caller muestra el mensaje y ofrece reintentar a mano.
func (g *Gate) Ensure(ctx context.Context, c ports.Capability) (Status, error) {
	g.mu.Lock()
	if g.statuses[c] == StatusGranted {
		g.mu.Unlock()
		return StatusGranted, nil
	}
	if req, ok := g.inflight[c]; ok {
		g.mu.Unlock()
		select {
		case <-req.done:
			return req.status, req.err
		case <-ctx.Done():
			return StatusUnknown, fmt.Errorf("%w: waiting for %s: %v", failures.ErrCancelled, c, ctx.Err())
		}
	}
	req := &request{done: make(chan struct{})}
	g.inflight[c] = req
	g.mu.Unlock()

	req.status, req.err = g.request(ctx, c)

	g.mu.Lock()
	delete(g.inflight, c)
	g.mu.Unlock()
	close(req.done)

	return req.status, req.err
}

func (g *Gate) request(ctx context.Context, c ports.Capability) (Status, error) {
	granted, err := g.provider.Request(ctx, c)
	if err != nil {
		// no se cachea: el siguiente Ensure vuelve a preguntar
		g.log.Warn("permission request failed", map[string]any{"capability": c, "error": err})
		return StatusDenied, &PermissionError{Capability: c, Cause: err}
	}

	st := statusOf(granted)
	g.mu.Lock()
	g.statuses[c] = st
	g.mu.Unlock()
	g.log.Debug("permission resolved", map[string]any{"capability": c, "status": st})

	if st == StatusDenied {
		return st, &PermissionError{Capability: c}
	}
	return st, nil
}

// EnsureAll corta en el primer permiso denegado y devuelve su error.
func (g *Gate) EnsureAll(ctx context.Context, caps ...ports.Capability) error {
	for _, c := range caps {
		if _, err := g.Ensure(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Refresh relee el estado desde el provider (p.ej. al volver a primer plano).
func (g *Gate) Refresh(ctx context.Context, c ports.Capability) (Status, error) {
	granted, err := g.provider.Status(ctx, c)

	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		return g.statusLocked(c), err
	}
	st := statusOf(granted)
	if prev := g.statusLocked(c); prev != st {
		g.log.Info("permission changed externally", map[string]any{"capability": c, "from": prev, "to": st})
	}
	g.statuses[c] = st
	return st, nil
}

// Status devuelve el estado cacheado, sin llamar al provider.
func (g *Gate) Status(c ports.Capability) Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusLocked(c)
}

// Snapshot devuelve el estado cacheado de todas las capabilities conocidas.
func (g *Gate) Snapshot() map[ports.Capability]Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[ports.Capability]Status, len(ports.All()))
	for _, c := range ports.All() {
		out[c] = g.statusLocked(c)
	}
	return out
}

func (g *Gate) statusLocked(c ports.Capability) Status {
	if st, ok := g.statuses[c]; ok {
		return st
	}
	return StatusUnknown
}

package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/device"
	"mappo-toolkit/internal/ports/permissions"
)

const leaseOwner = "scanner"

var (
	// ErrDiscarded: el evento llegó con el escáner detenido o bloqueado.
	// No se muestra al usuario.
	ErrDiscarded = errors.New("recognition discarded")
	ErrNoResult  = errors.New("no scan result yet")
)

type Deps struct {
	Gate    PermissionGate
	Handoff Deliverer
	Lease   HardwareLease

	// Camera por defecto; Scanner si el hardware lo expone aparte.
	Capability permissions.Capability
	Cooldown   time.Duration
	Now        func() time.Time
	Log        logger.Logger
}

// Session es el escáner continuo de QR/códigos de barra.
// Idle/Scanning lo controla el usuario; el bloqueo es ortogonal.
type Session struct {
	mu sync.Mutex

	gate       PermissionGate
	handoff    Deliverer
	lease      HardwareLease
	capability permissions.Capability
	debounce   *Debouncer
	log        logger.Logger

	scanning bool
	starting bool
	gen      uint64
	last     *Result
	lastLink *handoff.Result

	// entregas en curso; Stop las cancela
	opSeq    uint64
	inflight map[uint64]context.CancelFunc
}

func NewSession(d Deps) *Session {
	c := d.Capability
	if c == "" {
		c = permissions.Camera
	}
	cd := d.Cooldown
	if cd <= 0 {
		cd = DefaultCooldown
	}
	return &Session{
		gate:       d.Gate,
		handoff:    d.Handoff,
		lease:      d.Lease,
		capability: c,
		debounce:   NewDebouncer(cd, d.Now),
		log:        logger.OrNop(d.Log).With(map[string]any{"component": "scan_session"}),
		inflight:   map[uint64]context.CancelFunc{},
	}
}

// Start pide el permiso si hace falta y sólo entra en Scanning si se concede.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.starting {
		s.mu.Unlock()
		return fmt.Errorf("%w: start", failures.ErrBusy)
	}
	if s.scanning {
		s.mu.Unlock()
		return nil
	}
	s.starting = true
	gen := s.gen
	s.mu.Unlock()

	_, err := s.gate.Ensure(ctx, s.capability)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return fmt.Errorf("%w: start", failures.ErrCancelled)
	}
	s.starting = false
	if err != nil {
		return err
	}
	if err := s.lease.Acquire(leaseOwner); err != nil {
		return err
	}
	s.scanning = true
	s.log.Debug("scanner started", nil)
	return nil
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.starting = false
	for id, cancel := range s.inflight {
		cancel()
		delete(s.inflight, id)
	}
	if s.scanning {
		s.log.Debug("scanner stopped", nil)
	}
	s.scanning = false
	s.lease.Release(leaseOwner)
}

// Handle procesa un evento del reconocedor. Devuelve ErrDiscarded si el
// escáner no está activo o sigue bloqueado; si no, registra el resultado y,
// si es un enlace, lo entrega a LinkOpen. Si Stop llega durante la entrega
// devuelve failures.ErrCancelled.
func (s *Session) Handle(ctx context.Context, ev device.Recognition) (Recognition, error) {
	s.mu.Lock()
	if !s.scanning {
		s.mu.Unlock()
		return Recognition{}, fmt.Errorf("%w: scanner idle", ErrDiscarded)
	}
	at, ok := s.debounce.Accept()
	if !ok {
		s.mu.Unlock()
		return Recognition{}, fmt.Errorf("%w: locked", ErrDiscarded)
	}

	res := Result{
		Payload:   ev.Payload,
		CodeType:  strings.TrimSpace(ev.CodeType),
		ScannedAt: at,
		Kind:      Classify(ev.Payload),
	}
	s.last = &res
	s.lastLink = nil

	out := Recognition{Result: res}
	if res.Kind != KindLink {
		s.mu.Unlock()
		s.log.Info("code recognized", map[string]any{"code_type": res.CodeType, "kind": res.Kind})
		return out, nil
	}
	ctx, gen, done := s.beginLocked(ctx)
	s.mu.Unlock()
	defer done()

	s.log.Info("code recognized", map[string]any{"code_type": res.CodeType, "kind": res.Kind})

	link := s.handoff.Deliver(ctx, handoff.KindLinkOpen, handoff.Payload{URL: Normalize(res.Payload)})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Recognition{}, s.discarded("handle")
	}
	s.lastLink = &link
	out.Link = &link
	return out, nil
}

// Reopen vuelve a intentar abrir el último payload, sea cual sea su clase.
// CanOpen decide si es abrible.
func (s *Session) Reopen(ctx context.Context) (handoff.Result, error) {
	s.mu.Lock()
	if s.last == nil {
		s.mu.Unlock()
		return handoff.Result{}, ErrNoResult
	}
	raw := s.last.Payload
	ctx, gen, done := s.beginLocked(ctx)
	s.mu.Unlock()
	defer done()

	link := s.handoff.Deliver(ctx, handoff.KindLinkOpen, handoff.Payload{URL: Normalize(raw)})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return handoff.Result{}, s.discarded("reopen")
	}
	s.lastLink = &link
	return link, nil
}

// Consume lee eventos hasta que se cierra el canal o se cancela ctx.
// report recibe cada evento aceptado; los descartados no se reportan.
func (s *Session) Consume(ctx context.Context, events <-chan device.Recognition, report func(Recognition)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			rec, err := s.Handle(ctx, ev)
			if err != nil {
				continue
			}
			if report != nil {
				report(rec)
			}
		}
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:       StateIdle,
		LockedUntil: s.debounce.LockedUntil(),
	}
	if s.scanning {
		snap.State = StateScanning
		if s.debounce.Locked() {
			snap.State = StateLocked
		}
	}
	if s.last != nil {
		r := *s.last
		snap.LastResult = &r
	}
	if s.lastLink != nil {
		l := *s.lastLink
		snap.LastLink = &l
	}
	return snap
}

func (s *Session) Cooldown() time.Duration { return s.debounce.Cooldown() }

// beginLocked registra una entrega en curso. done la saca del registro.
func (s *Session) beginLocked(ctx context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)
	s.opSeq++
	id := s.opSeq
	s.inflight[id] = cancel
	return ctx, s.gen, func() {
		cancel()
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}
}

func (s *Session) discarded(op string) error {
	s.log.Debug("stale result discarded", map[string]any{"op": op})
	return fmt.Errorf("%w: %s", failures.ErrCancelled, op)
}

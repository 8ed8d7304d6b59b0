package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/photos"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/device"
)

const leaseOwner = "capture"

const DefaultQuality = 0.7

type Deps struct {
	Gate    PermissionGate
	Camera  device.Camera
	Handoff Deliverer
	Photos  ArtifactSink
	Lease   HardwareLease

	// Opcionales.
	IDs     IDGenerator
	Quality float64
	Now     func() time.Time
	Log     logger.Logger
}

// Session es la máquina de estados de captura de una sola foto.
//
// Las llamadas a puertos (permisos, cámara, galería) corren fuera del lock.
// gen se incrementa en cada Deactivate: un resultado que vuelve con una
// generación vieja se descarta con failures.ErrCancelled.
type Session struct {
	mu sync.Mutex

	gate    PermissionGate
	camera  device.Camera
	handoff Deliverer
	photos  ArtifactSink
	lease   HardwareLease
	ids     IDGenerator
	quality float64
	now     func() time.Time
	log     logger.Logger

	state       State
	preview     *photos.Artifact
	pending     string
	cancel      context.CancelFunc
	gen         uint64
	lastErr     error
	lastGallery *handoff.Result
}

func NewSession(d Deps) *Session {
	s := &Session{
		gate:    d.Gate,
		camera:  d.Camera,
		handoff: d.Handoff,
		photos:  d.Photos,
		lease:   d.Lease,
		ids:     d.IDs,
		quality: d.Quality,
		now:     d.Now,
		log:     logger.OrNop(d.Log).With(map[string]any{"component": "capture_session"}),
		state:   StateIdle,
	}
	if s.ids == nil {
		s.ids = photos.NewIDGenerator()
	}
	if s.quality <= 0 || s.quality > 1 {
		s.quality = DefaultQuality
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Activate pasa de Idle a Active si cámara y galería están concedidas.
// Si ya está activa no hace nada.
func (s *Session) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.pending != "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", failures.ErrBusy, s.pending)
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil
	}
	ctx, gen := s.beginLocked(ctx, "activate")
	s.mu.Unlock()

	err := s.gate.EnsureAll(ctx, requiredCapabilities...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finishLocked(gen) {
		return s.discarded("activate")
	}
	if err != nil {
		s.lastErr = err
		return err
	}
	if err := s.lease.Acquire(leaseOwner); err != nil {
		s.lastErr = err
		return err
	}

	s.lastErr = nil
	s.transitionLocked(StateActive)
	return nil
}

// Capture toma una foto y entra en Preview. Si el hardware falla o no
// devuelve URI, la sesión queda en Active y se puede reintentar sin volver
// a pedir permisos.
func (s *Session) Capture(ctx context.Context) (photos.Artifact, error) {
	s.mu.Lock()
	if s.pending != "" {
		s.mu.Unlock()
		return photos.Artifact{}, fmt.Errorf("%w: %s", failures.ErrBusy, s.pending)
	}
	if s.state != StateActive && s.state != StateResolved {
		st := s.state
		s.mu.Unlock()
		return photos.Artifact{}, fmt.Errorf("%w: capture from %s", failures.ErrInvalidState, st)
	}
	ctx, gen := s.beginLocked(ctx, "capture")
	quality := s.quality
	s.mu.Unlock()

	pic, err := s.camera.TakePicture(ctx, device.CaptureOptions{Quality: quality})

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finishLocked(gen) {
		return photos.Artifact{}, s.discarded("capture")
	}

	uri := strings.TrimSpace(pic.URI)
	if err != nil || uri == "" {
		if err == nil {
			err = fmt.Errorf("%w: capture returned no uri", failures.ErrHardwareUnavailable)
		} else {
			err = fmt.Errorf("%w: %v", failures.ErrHardwareUnavailable, err)
		}
		s.lastErr = err
		s.transitionLocked(StateActive)
		s.log.Warn("capture failed", map[string]any{"error": err})
		return photos.Artifact{}, err
	}

	at := s.now()
	a := photos.Artifact{
		ID:         s.ids.New(uri, at),
		URI:        uri,
		CapturedAt: at,
	}
	s.preview = &a
	s.lastErr = nil
	s.transitionLocked(StatePreview)
	return a, nil
}

// Discard rechaza la vista previa sin efectos externos.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePreview || s.pending != "" {
		return fmt.Errorf("%w: discard from %s", failures.ErrInvalidState, s.state)
	}
	s.preview = nil
	s.transitionLocked(StateActive)
	return nil
}

// Confirm guarda la foto en la galería (best-effort) y la entrega a la
// colección. Una falla de galería queda registrada como PartialFailure pero
// no bloquea la entrega.
func (s *Session) Confirm(ctx context.Context) (Confirmation, error) {
	s.mu.Lock()
	if s.pending != "" {
		s.mu.Unlock()
		return Confirmation{}, fmt.Errorf("%w: %s", failures.ErrBusy, s.pending)
	}
	if s.state != StatePreview || s.preview == nil {
		st := s.state
		s.mu.Unlock()
		return Confirmation{}, fmt.Errorf("%w: confirm from %s", failures.ErrInvalidState, st)
	}
	a := *s.preview
	ctx, gen := s.beginLocked(ctx, "confirm")
	s.transitionLocked(StateResolving)
	s.mu.Unlock()

	res := s.handoff.Deliver(ctx, handoff.KindGallerySave, handoff.Payload{URI: a.URI})

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finishLocked(gen) {
		return Confirmation{}, s.discarded("confirm")
	}

	s.lastGallery = &res
	if res.Reason == handoff.ReasonBadPayload {
		// sin URI no hay nada que entregar
		s.preview = nil
		s.lastErr = res.Err
		s.transitionLocked(StateActive)
		return Confirmation{}, res.Err
	}
	if res.Status == handoff.StatusPartialFailure {
		s.log.Warn("gallery save skipped, delivering anyway", map[string]any{"photo_id": a.ID, "detail": res.Detail})
	}

	if err := s.photos.Prepend(a); err != nil {
		err = fmt.Errorf("%w: collection: %v", failures.ErrExternalSink, err)
		s.preview = nil
		s.lastErr = err
		s.transitionLocked(StateActive)
		return Confirmation{}, err
	}

	s.preview = nil
	s.lastErr = nil
	s.transitionLocked(StateResolved)
	s.log.Info("photo delivered", map[string]any{"photo_id": a.ID, "gallery": res.Status})
	return Confirmation{Artifact: a, Gallery: res}, nil
}

// Deactivate vuelve a Idle desde cualquier estado, limpia la vista previa y
// deja sin efecto cualquier operación en curso.
func (s *Session) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = ""
	s.preview = nil
	s.lastErr = nil
	s.lease.Release(leaseOwner)
	s.transitionLocked(StateIdle)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state,
		Pending:   s.pending,
		LastError: s.lastErr,
	}
	if s.preview != nil {
		p := *s.preview
		snap.Preview = &p
	}
	if s.lastGallery != nil {
		g := *s.lastGallery
		snap.LastGallery = &g
	}
	return snap
}

func (s *Session) beginLocked(ctx context.Context, op string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)
	s.pending = op
	s.cancel = cancel
	return ctx, s.gen
}

// finishLocked libera la operación en curso si sigue siendo de esta generación.
func (s *Session) finishLocked(gen uint64) bool {
	if gen != s.gen {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = ""
	return true
}

func (s *Session) discarded(op string) error {
	s.log.Debug("stale result discarded", map[string]any{"op": op})
	return fmt.Errorf("%w: %s", failures.ErrCancelled, op)
}

func (s *Session) transitionLocked(to State) {
	if s.state == to {
		return
	}
	s.log.Debug("transition", map[string]any{"from": s.state, "to": to})
	s.state = to
}

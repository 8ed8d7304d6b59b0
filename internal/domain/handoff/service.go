package handoff

import (
	"context"
	"fmt"
	"strings"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/calendar"
	"mappo-toolkit/internal/ports/device"
)

// Service entrega artefactos resueltos a sinks externos y clasifica el resultado.
// Cualquier sink puede ser nil; en ese caso la entrega de ese Kind falla con ReasonNoSink.
type Service struct {
	gallery  device.GallerySink
	calendar calendar.Provider
	opener   device.URLOpener
	log      logger.Logger
}

type Sinks struct {
	Gallery  device.GallerySink
	Calendar calendar.Provider
	Opener   device.URLOpener
}

func NewService(s Sinks, log logger.Logger) *Service {
	return &Service{
		gallery:  s.Gallery,
		calendar: s.Calendar,
		opener:   s.Opener,
		log:      logger.OrNop(log).With(map[string]any{"component": "handoff"}),
	}
}

func (s *Service) Deliver(ctx context.Context, kind Kind, p Payload) Result {
	switch kind {
	case KindGallerySave:
		return s.saveToGallery(ctx, p)
	case KindCalendarInsert:
		return s.insertEvent(ctx, p)
	case KindLinkOpen:
		return s.openLink(ctx, p)
	default:
		return failed(kind, ReasonBadPayload, fmt.Errorf("%w: unknown handoff kind %q", failures.ErrInvalidInput, kind))
	}
}

// La galería es best-effort: cualquier falla degrada a PartialFailure.
func (s *Service) saveToGallery(ctx context.Context, p Payload) Result {
	uri := strings.TrimSpace(p.URI)
	if uri == "" {
		return failed(KindGallerySave, ReasonBadPayload, fmt.Errorf("%w: uri required", failures.ErrInvalidInput))
	}
	if s.gallery == nil {
		return partial(KindGallerySave, ReasonNoSink, fmt.Errorf("%w: gallery not configured", failures.ErrExternalSink))
	}
	if err := s.gallery.Save(ctx, uri); err != nil {
		s.log.Warn("gallery save failed", map[string]any{"uri": uri, "error": err})
		return partial(KindGallerySave, ReasonSinkError, fmt.Errorf("%w: gallery: %v", failures.ErrExternalSink, err))
	}
	return Result{Kind: KindGallerySave, Status: StatusDelivered}
}

func (s *Service) insertEvent(ctx context.Context, p Payload) Result {
	if strings.TrimSpace(p.CalendarID) == "" {
		return failed(KindCalendarInsert, ReasonBadPayload, fmt.Errorf("%w: calendar id required", failures.ErrInvalidInput))
	}
	if !p.Event.End.After(p.Event.Start) {
		return failed(KindCalendarInsert, ReasonBadPayload, fmt.Errorf("%w: end must be after start", failures.ErrInvalidInput))
	}
	if s.calendar == nil {
		return failed(KindCalendarInsert, ReasonNoSink, fmt.Errorf("%w: calendar not configured", failures.ErrExternalSink))
	}

	id, err := s.calendar.CreateEvent(ctx, p.CalendarID, p.Event)
	if err != nil {
		s.log.Warn("calendar insert failed", map[string]any{"calendar_id": p.CalendarID, "error": err})
		return failed(KindCalendarInsert, ReasonSinkError, fmt.Errorf("%w: calendar: %v", failures.ErrExternalSink, err))
	}
	return Result{Kind: KindCalendarInsert, Status: StatusDelivered, EventID: id}
}

func (s *Service) openLink(ctx context.Context, p Payload) Result {
	if strings.TrimSpace(p.URL) == "" {
		return failed(KindLinkOpen, ReasonBadPayload, fmt.Errorf("%w: url required", failures.ErrInvalidInput))
	}
	if s.opener == nil {
		return failed(KindLinkOpen, ReasonNoSink, fmt.Errorf("%w: opener not configured", failures.ErrExternalSink))
	}

	res := s.tryOpen(ctx, p.URL)
	if res.Status == StatusDelivered || strings.TrimSpace(p.FallbackURL) == "" || ctx.Err() != nil {
		return res
	}

	s.log.Info("primary link failed, trying fallback", map[string]any{"url": p.URL, "fallback": p.FallbackURL, "reason": res.Reason})
	fb := s.tryOpen(ctx, p.FallbackURL)
	fb.UsedFallback = true
	return fb
}

// tryOpen nunca llama Open si CanOpen dice que no o si ctx ya se canceló.
func (s *Service) tryOpen(ctx context.Context, url string) Result {
	can, err := s.opener.CanOpen(ctx, url)
	if err != nil {
		return failed(KindLinkOpen, ReasonSinkError, fmt.Errorf("%w: probe %s: %v", failures.ErrExternalSink, url, err))
	}
	if !can {
		return failed(KindLinkOpen, ReasonUnsupported, fmt.Errorf("%w: cannot open %s", failures.ErrExternalSink, url))
	}
	if err := ctx.Err(); err != nil {
		return failed(KindLinkOpen, ReasonSinkError, fmt.Errorf("%w: open %s: %v", failures.ErrCancelled, url, err))
	}
	if err := s.opener.Open(ctx, url); err != nil {
		return failed(KindLinkOpen, ReasonSinkError, fmt.Errorf("%w: open %s: %v", failures.ErrExternalSink, url, err))
	}
	return Result{Kind: KindLinkOpen, Status: StatusDelivered, OpenedURL: url}
}

func failed(k Kind, r Reason, err error) Result {
	return Result{Kind: k, Status: StatusFailed, Reason: r, Detail: err.Error(), Err: err}
}

func partial(k Kind, r Reason, err error) Result {
	return Result{Kind: k, Status: StatusPartialFailure, Reason: r, Detail: err.Error(), Err: err}
}

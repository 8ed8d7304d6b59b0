package comms

import (
	"context"
	"fmt"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/platform/logger"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

type Deliverer interface {
	Deliver(ctx context.Context, kind handoff.Kind, p handoff.Payload) handoff.Result
}

// Service arma deep-links de telefonía/mensajería y los abre vía LinkOpen.
type Service struct {
	handoff  Deliverer
	platform string
	log      logger.Logger
}

func NewService(d Deliverer, platform string, log logger.Logger) *Service {
	if platform == "" {
		platform = PlatformAndroid
	}
	return &Service{
		handoff:  d,
		platform: platform,
		log:      logger.OrNop(log).With(map[string]any{"component": "comms"}),
	}
}

func (s *Service) Call(ctx context.Context, number string) (handoff.Result, error) {
	n, err := requireNumber(number)
	if err != nil {
		return handoff.Result{}, err
	}
	return s.open(ctx, handoff.Payload{URL: CallURL(n)})
}

func (s *Service) SMS(ctx context.Context, number, message string) (handoff.Result, error) {
	n, err := requireNumber(number)
	if err != nil {
		return handoff.Result{}, err
	}
	return s.open(ctx, handoff.Payload{URL: SMSURL(n, message, s.platform)})
}

// WhatsApp intenta el scheme nativo y, si falla, una única vez wa.me.
func (s *Service) WhatsApp(ctx context.Context, number, message string) (handoff.Result, error) {
	n, err := requireNumber(number)
	if err != nil {
		return handoff.Result{}, err
	}
	primary, fallback := WhatsAppURLs(n, message)
	return s.open(ctx, handoff.Payload{URL: primary, FallbackURL: fallback})
}

func (s *Service) open(ctx context.Context, p handoff.Payload) (handoff.Result, error) {
	res := s.handoff.Deliver(ctx, handoff.KindLinkOpen, p)
	if !res.Delivered() {
		s.log.Info("link not opened", map[string]any{"url": p.URL, "reason": res.Reason})
		return res, res.Err
	}
	return res, nil
}

func requireNumber(raw string) (string, error) {
	n := SanitizeNumber(raw)
	if n == "" {
		return "", fmt.Errorf("%w: phone number required", failures.ErrInvalidInput)
	}
	return n, nil
}

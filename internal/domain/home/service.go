package home

import (
	"context"

	"mappo-toolkit/internal/domain/photos"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/calendar"
)

// MaxUpcoming es cuántos eventos muestra la pantalla principal.
const MaxUpcoming = 3

type UpcomingSource interface {
	Upcoming(ctx context.Context) ([]calendar.Event, error)
	Cached() []calendar.Event
}

type Overview struct {
	Photos   []photos.Artifact
	Upcoming []calendar.Event
}

// Service es la pantalla principal: dueña de la colección de fotos, que
// las demás features sólo reciben como sink o para lectura.
type Service struct {
	photos   *photos.Collection
	upcoming UpcomingSource
	log      logger.Logger
}

func NewService(collection *photos.Collection, upcoming UpcomingSource, log logger.Logger) *Service {
	if collection == nil {
		collection = photos.NewCollection()
	}
	return &Service{
		photos:   collection,
		upcoming: upcoming,
		log:      logger.OrNop(log).With(map[string]any{"component": "home"}),
	}
}

func (s *Service) Photos() *photos.Collection { return s.photos }

// Overview nunca falla: si el calendario no responde, usa lo último cacheado.
func (s *Service) Overview(ctx context.Context, refresh bool) Overview {
	out := Overview{Photos: s.photos.List()}
	if s.upcoming == nil {
		return out
	}

	evs := s.upcoming.Cached()
	if refresh {
		fresh, err := s.upcoming.Upcoming(ctx)
		if err != nil {
			s.log.Debug("upcoming unavailable", map[string]any{"error": err})
		} else {
			evs = fresh
		}
	}
	if len(evs) > MaxUpcoming {
		evs = evs[:MaxUpcoming]
	}
	out.Upcoming = evs
	return out
}

func (s *Service) RemovePhoto(id string) error {
	return s.photos.Remove(id)
}

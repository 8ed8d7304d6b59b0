package photos

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator genera ids únicos aun con capturedAt repetido.
type IDGenerator struct {
	random func() (uuid.UUID, error)
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{random: uuid.NewRandom}
}

// New usa UUIDv4; si la fuente aleatoria falla cae a
// "<unix-nanos>-<uri>-<sufijo base36>".
func (g *IDGenerator) New(uri string, capturedAt time.Time) string {
	if g != nil && g.random != nil {
		if id, err := g.random(); err == nil {
			return id.String()
		}
	}
	return fallbackID(uri, capturedAt)
}

func fallbackID(uri string, capturedAt time.Time) string {
	return fmt.Sprintf("%d-%s-%s", capturedAt.UnixNano(), strings.TrimSpace(uri), randomSuffix(10))
}

func randomSuffix(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return b.String()[:n]
}

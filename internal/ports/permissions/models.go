package permissions

import (
	"fmt"
	"strings"
)

// Capability es un dominio de permiso protegido por el sistema operativo.
type Capability string

const (
	Camera       Capability = "camera"
	MediaLibrary Capability = "media_library"
	Calendar     Capability = "calendar"
	Scanner      Capability = "scanner"
)

// All lista las capabilities conocidas en orden estable.
func All() []Capability {
	return []Capability{Camera, MediaLibrary, Calendar, Scanner}
}

func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

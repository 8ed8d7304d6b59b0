package photos

import "time"

// Artifact es una foto confirmada. Inmutable una vez creada.
type Artifact struct {
	ID         string
	URI        string
	CapturedAt time.Time
}

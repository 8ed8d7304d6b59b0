package device

import "time"

type CaptureOptions struct {
	Quality float64
}

// Picture es lo que devuelve el hardware; URI vacía equivale a captura fallida.
type Picture struct {
	URI string
}

// Recognition es un evento del reconocedor continuo (uno por frame con código).
type Recognition struct {
	Payload  string
	CodeType string
	At       time.Time
}

package schedule

import (
	"strings"
	"time"
)

// Validator es puro y sincrónico: no toca el proveedor de calendario.
type Validator struct {
	loc *time.Location
}

func NewValidator(loc *time.Location) Validator {
	if loc == nil {
		loc = time.Local
	}
	return Validator{loc: loc}
}

// Validate arma un Request sin calendario asignado.
func (v Validator) Validate(titleText, locationText, rawStart string) (Request, error) {
	title := strings.TrimSpace(titleText)
	if title == "" {
		return Request{}, reject(ReasonMissingTitle, "")
	}

	raw := strings.TrimSpace(rawStart)
	// time.ParseInLocation rechaza fechas imposibles (2024-02-30) y horas fuera de rango
	start, err := time.ParseInLocation(InputLayout, raw, v.loc)
	if err != nil {
		return Request{}, reject(ReasonInvalidDateTime, "expected YYYY-MM-DD HH:mm")
	}

	return Request{
		Title:    title,
		Location: strings.TrimSpace(locationText),
		Start:    start,
		End:      start.Add(Duration),
	}, nil
}

// Validate usa la zona horaria local.
func Validate(titleText, locationText, rawStart string) (Request, error) {
	return NewValidator(time.Local).Validate(titleText, locationText, rawStart)
}

package schedule

import "mappo-toolkit/internal/ports/calendar"

// PickCalendar prefiere un calendario modificable. Si no hay ninguno, usa el
// primero listado salvo en modo estricto. Lista vacía => NoWritableCalendar.
func PickCalendar(cals []calendar.Calendar, strict bool) (calendar.Calendar, error) {
	if len(cals) == 0 {
		return calendar.Calendar{}, reject(ReasonNoWritableCalendar, "no calendars available")
	}
	for _, c := range cals {
		if c.Modifiable {
			return c, nil
		}
	}
	if strict {
		return calendar.Calendar{}, reject(ReasonNoWritableCalendar, "no modifiable calendar")
	}
	return cals[0], nil
}

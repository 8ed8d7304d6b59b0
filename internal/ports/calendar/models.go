package calendar

import "time"

type Calendar struct {
	ID         string
	Title      string
	Modifiable bool
}

type EventInput struct {
	Title    string
	Location string
	Start    time.Time
	End      time.Time
	Notes    string
}

type Event struct {
	ID         string
	CalendarID string
	Title      string
	Location   string
	Start      time.Time
	End        time.Time
}

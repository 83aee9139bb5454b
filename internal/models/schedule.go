package models

import "time"

// ScheduleStatus is the body of /api/schedule.
type ScheduleStatus struct {
	Active bool `json:"active"`
}

// ScheduleWindow opens a time-gated feature between Start and End.
type ScheduleWindow struct {
	Path  string    `json:"path"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End).
func (w ScheduleWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

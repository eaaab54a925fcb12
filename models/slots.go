package models

import "time"

// AvailabilitySlot is a free interval produced by the scheduler. Values are
// never mutated after creation.
type AvailabilitySlot struct {
	Start           time.Time `json:"start" validate:"required"`
	End             time.Time `json:"end" validate:"required,gtfield=Start"`
	DurationMinutes int       `json:"durationMinutes" validate:"gt=0,lte=1440"` // equals End-Start
	IsAvailable     bool      `json:"isAvailable"`
}

// NewAvailabilitySlot builds a slot whose duration is derived from its bounds.
func NewAvailabilitySlot(start, end time.Time) AvailabilitySlot {
	return AvailabilitySlot{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
		IsAvailable:     true,
	}
}

// BusyInterval is an occupied block reported by the calendar.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title,omitempty"`
}

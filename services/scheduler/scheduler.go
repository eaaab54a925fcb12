package scheduler

import (
	"time"

	"bookingagent/models"

	"github.com/elliotchance/pie/v2"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Window describes where free time is searched for.
type Window struct {
	Start           time.Time
	Days            int `validate:"gte=0"`
	DurationMinutes int `validate:"gt=0,lte=1440"`
	WorkStartHour   int `validate:"gte=0,lte=23"`
	WorkEndHour     int `validate:"gte=1,lte=24,gtfield=WorkStartHour"`
}

// Validate checks the window bounds.
func (w Window) Validate() error {
	return validate.Struct(w)
}

// FindAvailable returns the free intervals of at least durationMinutes inside
// working hours of every weekday in the window, ordered by day then start.
func FindAvailable(
	busy []models.BusyInterval,
	windowStart time.Time,
	windowDays, durationMinutes, workStartHour, workEndHour int,
) []models.AvailabilitySlot {
	return Window{
		Start:           windowStart,
		Days:            windowDays,
		DurationMinutes: durationMinutes,
		WorkStartHour:   workStartHour,
		WorkEndHour:     workEndHour,
	}.FindAvailable(busy)
}

// FindAvailable runs the gap search for the window. An invalid window yields no slots.
func (w Window) FindAvailable(busy []models.BusyInterval) []models.AvailabilitySlot {
	slots := []models.AvailabilitySlot{}
	if err := w.Validate(); err != nil {
		return slots
	}

	need := time.Duration(w.DurationMinutes) * time.Minute
	loc := w.Start.Location()
	first := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, loc)

	for i := 0; i < w.Days; i++ {
		day := first.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		spanStart := time.Date(day.Year(), day.Month(), day.Day(), w.WorkStartHour, 0, 0, 0, loc)
		spanEnd := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).Add(time.Duration(w.WorkEndHour) * time.Hour)

		slots = append(slots, gapsInSpan(dayIntervals(busy, spanStart, spanEnd), spanStart, spanEnd, need)...)
	}

	return slots
}

// dayIntervals selects the intervals touching the span, clamps them to it and
// sorts them by start. Ties keep input order.
func dayIntervals(busy []models.BusyInterval, spanStart, spanEnd time.Time) []models.BusyInterval {
	touching := pie.Filter(busy, func(b models.BusyInterval) bool {
		return b.End.After(b.Start) && b.Start.Before(spanEnd) && b.End.After(spanStart)
	})

	clamped := pie.Map(touching, func(b models.BusyInterval) models.BusyInterval {
		if b.Start.Before(spanStart) {
			b.Start = spanStart
		}
		if b.End.After(spanEnd) {
			b.End = spanEnd
		}
		return b
	})

	return pie.SortStableUsing(clamped, func(a, b models.BusyInterval) bool {
		return a.Start.Before(b.Start)
	})
}

func gapsInSpan(busy []models.BusyInterval, spanStart, spanEnd time.Time, need time.Duration) []models.AvailabilitySlot {
	var slots []models.AvailabilitySlot

	cursor := spanStart
	for _, b := range busy {
		if b.Start.Sub(cursor) >= need {
			slots = append(slots, models.NewAvailabilitySlot(cursor, b.Start))
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if spanEnd.Sub(cursor) >= need {
		slots = append(slots, models.NewAvailabilitySlot(cursor, spanEnd))
	}

	return slots
}

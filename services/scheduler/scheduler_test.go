package scheduler

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"bookingagent/models"
)

// 2024-01-01 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func busy(start, end time.Time) models.BusyInterval {
	return models.BusyInterval{Start: start, End: end}
}

type span struct{ start, end time.Time }

func spans(slots []models.AvailabilitySlot) []span {
	out := make([]span, 0, len(slots))
	for _, s := range slots {
		out = append(out, span{s.Start, s.End})
	}
	return out
}

func TestFindAvailable(t *testing.T) {
	tests := []struct {
		name     string
		busy     []models.BusyInterval
		start    time.Time
		days     int
		duration int
		want     []span
	}{
		{
			name:     "free day yields the whole working span",
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want:     []span{{at(1, 9, 0), at(1, 17, 0)}},
		},
		{
			name:     "gaps around busy blocks",
			busy:     []models.BusyInterval{busy(at(1, 13, 0), at(1, 14, 0)), busy(at(1, 10, 0), at(1, 11, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want: []span{
				{at(1, 9, 0), at(1, 10, 0)},
				{at(1, 11, 0), at(1, 13, 0)},
				{at(1, 14, 0), at(1, 17, 0)},
			},
		},
		{
			name:     "short gaps are dropped",
			busy:     []models.BusyInterval{busy(at(1, 9, 30), at(1, 10, 0)), busy(at(1, 16, 15), at(1, 17, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want:     []span{{at(1, 10, 0), at(1, 16, 15)}},
		},
		{
			name:     "overlapping busy blocks",
			busy:     []models.BusyInterval{busy(at(1, 10, 0), at(1, 12, 0)), busy(at(1, 11, 0), at(1, 11, 30))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 30,
			want:     []span{{at(1, 9, 0), at(1, 10, 0)}, {at(1, 12, 0), at(1, 17, 0)}},
		},
		{
			name:     "blocks outside working hours are ignored",
			busy:     []models.BusyInterval{busy(at(1, 7, 0), at(1, 8, 0)), busy(at(1, 18, 0), at(1, 19, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want:     []span{{at(1, 9, 0), at(1, 17, 0)}},
		},
		{
			name:     "blocks crossing the span edges are clamped",
			busy:     []models.BusyInterval{busy(at(1, 8, 0), at(1, 10, 0)), busy(at(1, 16, 0), at(1, 18, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want:     []span{{at(1, 10, 0), at(1, 16, 0)}},
		},
		{
			name:     "block spilling over from the previous evening",
			busy:     []models.BusyInterval{busy(at(1, 20, 0), at(2, 11, 0))},
			start:    at(1, 0, 0),
			days:     2,
			duration: 60,
			want:     []span{{at(1, 9, 0), at(1, 17, 0)}, {at(2, 11, 0), at(2, 17, 0)}},
		},
		{
			name:     "weekends are skipped",
			start:    at(6, 0, 0), // Saturday
			days:     3,
			duration: 60,
			want:     []span{{at(8, 9, 0), at(8, 17, 0)}},
		},
		{
			name:     "weekend-only window yields nothing",
			start:    at(6, 0, 0),
			days:     2,
			duration: 60,
			want:     []span{},
		},
		{
			name:     "fully booked day",
			busy:     []models.BusyInterval{busy(at(1, 9, 0), at(1, 17, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 15,
			want:     []span{},
		},
		{
			name:     "inverted block is ignored",
			busy:     []models.BusyInterval{busy(at(1, 12, 0), at(1, 11, 0))},
			start:    at(1, 0, 0),
			days:     1,
			duration: 60,
			want:     []span{{at(1, 9, 0), at(1, 17, 0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spans(FindAvailable(tt.busy, tt.start, tt.days, tt.duration, 9, 17))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindAvailableDurationField(t *testing.T) {
	slots := FindAvailable([]models.BusyInterval{busy(at(1, 10, 0), at(1, 11, 0))}, at(1, 0, 0), 1, 45, 9, 17)
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	for _, s := range slots {
		if s.DurationMinutes != int(s.End.Sub(s.Start).Minutes()) {
			t.Errorf("DurationMinutes = %d, want %v", s.DurationMinutes, s.End.Sub(s.Start).Minutes())
		}
		if !s.IsAvailable {
			t.Error("slot should be marked available")
		}
	}
}

func TestFindAvailableInvalidWindow(t *testing.T) {
	cases := []Window{
		{Start: at(1, 0, 0), Days: 1, DurationMinutes: 0, WorkStartHour: 9, WorkEndHour: 17},
		{Start: at(1, 0, 0), Days: 1, DurationMinutes: 60, WorkStartHour: 17, WorkEndHour: 9},
		{Start: at(1, 0, 0), Days: -1, DurationMinutes: 60, WorkStartHour: 9, WorkEndHour: 17},
		{Start: at(1, 0, 0), Days: 1, DurationMinutes: 2000, WorkStartHour: 9, WorkEndHour: 17},
	}
	for _, w := range cases {
		if w.Validate() == nil {
			t.Errorf("Validate(%+v) = nil, want error", w)
		}
		if got := w.FindAvailable(nil); len(got) != 0 {
			t.Errorf("FindAvailable(%+v) = %v, want no slots", w, got)
		}
	}
}

func TestFindAvailableProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		var input []models.BusyInterval
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			day := 1 + rng.Intn(7)
			startMin := rng.Intn(24 * 60)
			length := 5 + rng.Intn(240)
			start := at(day, 0, 0).Add(time.Duration(startMin) * time.Minute)
			input = append(input, busy(start, start.Add(time.Duration(length)*time.Minute)))
		}
		duration := 15 + rng.Intn(120)

		got := FindAvailable(input, at(1, 0, 0), 7, duration, 9, 17)
		again := FindAvailable(input, at(1, 0, 0), 7, duration, 9, 17)
		if !reflect.DeepEqual(got, again) {
			t.Fatalf("round %d: output is not deterministic", round)
		}

		for i, s := range got {
			if s.End.Sub(s.Start) < time.Duration(duration)*time.Minute {
				t.Errorf("round %d: slot %v shorter than %d minutes", round, spans(got[i:i+1]), duration)
			}
			if wd := s.Start.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Errorf("round %d: slot on weekend %v", round, s.Start)
			}
			dayStart := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 9, 0, 0, 0, time.UTC)
			dayEnd := dayStart.Add(8 * time.Hour)
			if s.Start.Before(dayStart) || s.End.After(dayEnd) {
				t.Errorf("round %d: slot %v outside working hours", round, spans(got[i:i+1]))
			}
			for _, b := range input {
				if b.Start.Before(s.End) && b.End.After(s.Start) {
					t.Errorf("round %d: slot %v overlaps busy %v-%v", round, spans(got[i:i+1]), b.Start, b.End)
				}
			}
			if i > 0 && !got[i-1].End.After(got[i-1].Start) {
				t.Errorf("round %d: empty slot emitted", round)
			}
			if i > 0 && got[i].Start.Before(got[i-1].End) {
				t.Errorf("round %d: slots out of order or overlapping at %d", round, i)
			}
		}
	}
}

package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookingagent/models"
)

// MemoryCalendar is an in-process calendar for local runs and tests.
// Bookings that overlap an existing event are rejected.
type MemoryCalendar struct {
	mu     sync.Mutex
	events map[string]models.BusyInterval
}

func NewMemoryCalendar(busy ...models.BusyInterval) *MemoryCalendar {
	m := &MemoryCalendar{events: make(map[string]models.BusyInterval)}
	for _, b := range busy {
		m.events[uuid.NewString()] = b
	}
	return m
}

func (m *MemoryCalendar) ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	busy := []models.BusyInterval{}
	for _, ev := range m.events {
		if ev.Start.Before(end) && ev.End.After(start) {
			busy = append(busy, ev)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

func (m *MemoryCalendar) CreateEvent(ctx context.Context, req models.BookingRequest) (models.BookingResult, error) {
	if err := ctx.Err(); err != nil {
		return models.BookingResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !req.End.After(req.Start) {
		return models.BookingResult{Success: false, Message: "Event end must be after its start."}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.Start.Before(req.End) && ev.End.After(req.Start) {
			return models.BookingResult{
				Success: false,
				Message: fmt.Sprintf("That time overlaps %q. Please pick another slot.", ev.Title),
			}, nil
		}
	}

	id := uuid.NewString()
	m.events[id] = models.BusyInterval{Start: req.Start, End: req.End, Title: req.Title}
	return models.BookingResult{
		Success: true,
		ID:      id,
		Message: fmt.Sprintf("Booked %q on %s.", req.Title, req.Start.Format("Monday, January 02 at 03:04 PM")),
	}, nil
}

// Events returns every stored event ordered by start.
func (m *MemoryCalendar) Events() []models.BusyInterval {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.BusyInterval, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

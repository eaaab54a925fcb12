package calendar

import (
	"context"
	"errors"
	"time"

	"bookingagent/models"
)

// ErrUnavailable wraps failures to reach the calendar backend.
var ErrUnavailable = errors.New("calendar unavailable")

// Service is the calendar the assistant books into.
type Service interface {
	// ListBusy returns timed events overlapping [start, end). All-day events are skipped.
	ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error)
	// CreateEvent books req. A rejected booking is reported through
	// BookingResult.Success, not through the error.
	CreateEvent(ctx context.Context, req models.BookingRequest) (models.BookingResult, error)
}

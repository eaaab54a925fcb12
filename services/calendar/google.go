package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"bookingagent/models"
	"bookingagent/services/retry"
)

// Scope is the OAuth scope needed to read and create events.
const Scope = gcal.CalendarScope

// GoogleCalendar books into a Google Calendar.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
	logger     *zap.Logger
}

// GoogleOptions locates the OAuth client secrets and the saved user token.
type GoogleOptions struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	TimeZone        string
}

// OAuthConfig reads the client secrets downloaded from the Google console.
func OAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return cfg, nil
}

// NewGoogleCalendar authenticates with the saved token, refreshing it if it
// expired. Run cmd/authorize first to create the token file.
func NewGoogleCalendar(ctx context.Context, opts GoogleOptions, logger *zap.Logger) (*GoogleCalendar, error) {
	oauthCfg, err := OAuthConfig(opts.CredentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(opts.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: no usable token, run the authorize command: %w", ErrUnavailable, err)
	}

	ts := newPersistingTokenSource(oauthCfg.TokenSource(ctx, tok), opts.TokenPath, tok, logger)

	refresh := retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
		Retryable:   func(error) bool { return true },
		OnRetry: func(err error, wait time.Duration) {
			logger.Warn("Token refresh failed, retrying", zap.Duration("wait", wait), zap.Error(err))
		},
	}
	if _, err := retry.Do(ctx, refresh, func(context.Context) (*oauth2.Token, error) { return ts.Token() }); err != nil {
		return nil, fmt.Errorf("%w: could not refresh Google credentials: %w", ErrUnavailable, err)
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauth2.ReuseTokenSource(nil, ts)))
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar client: %w", ErrUnavailable, err)
	}
	return NewGoogleCalendarFromService(svc, opts.CalendarID, opts.TimeZone, logger), nil
}

// NewGoogleCalendarFromService wraps an already authenticated client.
func NewGoogleCalendarFromService(svc *gcal.Service, calendarID, timeZone string, logger *zap.Logger) *GoogleCalendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, timeZone: timeZone, logger: logger}
}

func (g *GoogleCalendar) ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	busy := []models.BusyInterval{}
	pageToken := ""

	for {
		call := g.svc.Events.List(g.calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: list events: %w", ErrUnavailable, err)
		}

		for _, ev := range events.Items {
			if interval, ok := toBusy(ev); ok {
				busy = append(busy, interval)
			}
		}

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	g.logger.Debug("Fetched busy intervals",
		zap.String("calendar", g.calendarID),
		zap.Time("from", start),
		zap.Time("to", end),
		zap.Int("count", len(busy)))
	return busy, nil
}

func toBusy(ev *gcal.Event) (models.BusyInterval, bool) {
	if ev.Status == "cancelled" || ev.Transparency == "transparent" {
		return models.BusyInterval{}, false
	}
	// All-day events only carry Date.
	if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return models.BusyInterval{}, false
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return models.BusyInterval{}, false
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return models.BusyInterval{}, false
	}

	title := ev.Summary
	if title == "" {
		title = "No Title"
	}
	return models.BusyInterval{Start: start, End: end, Title: title}, true
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, req models.BookingRequest) (models.BookingResult, error) {
	ev := &gcal.Event{
		Summary:     req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      string(req.Status),
		Start:       &gcal.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: g.timeZone},
		End:         &gcal.EventDateTime{DateTime: req.End.Format(time.RFC3339), TimeZone: g.timeZone},
	}
	for _, email := range req.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		g.logger.Error("Failed to create calendar event", zap.String("title", req.Title), zap.Error(err))
		return models.BookingResult{
			Success: false,
			Message: "Failed to create calendar event. Please try again later.",
		}, nil
	}

	g.logger.Info("Calendar event created", zap.String("eventId", created.Id), zap.String("title", req.Title))
	return models.BookingResult{
		Success: true,
		ID:      created.Id,
		Message: fmt.Sprintf("Booked %q on %s.", req.Title, req.Start.Format("Monday, January 02 at 03:04 PM")),
	}, nil
}

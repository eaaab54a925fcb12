package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookingagent/models"
	"bookingagent/services/intelligence"
	"bookingagent/services/retry"
	"bookingagent/services/scheduler"
	"bookingagent/services/tasks"
)

const (
	minDuration = 15
	maxDuration = 480
)

// mergeExtraction copies whatever the message mentioned into the Context.
func (e *Engine) mergeExtraction(t *turn) {
	c, ex := t.c, t.ex

	if ex.Date != nil {
		d := *ex.Date
		c.PreferredDate = &d
	}
	if ex.Time != nil {
		tm := *ex.Time
		c.PreferredTime = &tm
	}
	if ex.Duration != nil {
		if err := e.validate.Var(*ex.Duration, fmt.Sprintf("min=%d,max=%d", minDuration, maxDuration)); err != nil {
			t.warn(fmt.Sprintf("meeting length must be between %d minutes and %d hours; keeping %d minutes",
				minDuration, maxDuration/60, c.Duration))
		} else {
			c.Duration = *ex.Duration
		}
	}
	if ex.Title != nil {
		c.MeetingTitle = *ex.Title
	}
}

func (e *Engine) systemPrompt(c *models.Context, now time.Time) string {
	var known []string
	if c.PreferredDate != nil {
		known = append(known, "date "+c.PreferredDate.Format("Monday, January 02, 2006"))
	}
	if c.PreferredTime != nil {
		known = append(known, fmt.Sprintf("time %02d:%02d", c.PreferredTime.Hour, c.PreferredTime.Minute))
	}
	known = append(known, fmt.Sprintf("duration %d minutes", c.Duration), "title "+c.MeetingTitle)

	return fmt.Sprintf(`You are a helpful calendar booking assistant. Help the user book a meeting.

Current conversation state: %s
Known details: %s
Current date/time: %s

If the preferred date or time is missing, ask for it in one short friendly sentence.
Meetings are booked on weekdays between %02d:00 and %02d:00.`,
		c.State, strings.Join(known, ", "), now.Format(time.RFC3339), e.cfg.WorkStartHour, e.cfg.WorkEndHour)
}

// understandIntent asks the generator for a reply when details are missing.
// A failed generation ends the turn without changing the state.
func (e *Engine) understandIntent(ctx context.Context, t *turn) error {
	c := t.c

	history := c.History[:len(c.History)-1]
	if len(history) > e.cfg.HistoryTurns {
		history = history[len(history)-e.cfg.HistoryTurns:]
	}
	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: e.systemPrompt(c, t.now)})
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: t.text})

	reply, err := retry.Do(ctx, e.policy, func(ctx context.Context) (string, error) {
		return e.generator.Generate(ctx, messages)
	})
	if err != nil {
		e.logger.Warn("Generation failed", zap.String("sessionId", c.SessionID), zap.Error(err))
		t.response = generationFailureMessage(err)
		t.warn("generation failed: " + err.Error())
		return nil
	}

	t.response = reply
	return transition(c, models.StateCollectingInfo)
}

func generationFailureMessage(err error) string {
	switch {
	case errors.Is(err, intelligence.ErrInvalidRequest):
		return "Sorry, I couldn't process that request. Could you rephrase it?"
	case errors.Is(err, retry.ErrExhausted):
		return "I'm receiving too many requests right now. Please try again in a moment."
	default:
		return "Sorry, I couldn't come up with a response right now. Please try again."
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// checkAvailability computes free slots around the preferred date and
// suggests them. A calendar failure leaves the state untouched.
func (e *Engine) checkAvailability(ctx context.Context, t *turn) error {
	c := t.c

	if c.PreferredDate == nil {
		d := midnight(t.now).AddDate(0, 0, 1)
		c.PreferredDate = &d
	}
	start := midnight(c.PreferredDate.In(e.cfg.Location))
	end := start.AddDate(0, 0, e.cfg.LookaheadDays)

	busy, err := e.calendar.ListBusy(ctx, start, end)
	if err != nil {
		e.logger.Warn("Calendar read failed", zap.String("sessionId", c.SessionID), zap.Error(err))
		t.response = unavailableReply
		t.warn("couldn't check availability: " + err.Error())
		return nil
	}

	// Time already gone today is as good as booked.
	if t.now.After(start) {
		busy = append(busy, models.BusyInterval{Start: start, End: t.now, Title: "past"})
	}

	slots := scheduler.FindAvailable(busy, start, e.cfg.LookaheadDays, c.Duration, e.cfg.WorkStartHour, e.cfg.WorkEndHour)

	if err := transition(c, models.StateCheckingAvailability); err != nil {
		return err
	}
	c.SuggestedSlots = slots
	c.SelectedSlot = nil

	return e.suggestSlots(t)
}

func (e *Engine) suggestSlots(t *turn) error {
	t.response = formatSuggestions(t.c.SuggestedSlots, e.cfg.MaxSuggestions)
	return transition(t.c, models.StateCollectingInfo)
}

// selectSlot stores the slot the reply points at and asks for confirmation.
func (e *Engine) selectSlot(t *turn) error {
	c := t.c
	idx, ok := resolveOrdinal(t.text, min(len(c.SuggestedSlots), e.cfg.MaxSuggestions))
	if !ok {
		t.response = repromptMessage
		return nil
	}

	slot := c.SuggestedSlots[idx]
	if err := transition(c, models.StateConfirmingBooking); err != nil {
		return err
	}
	c.SelectedSlot = &slot

	start, end := e.bookingWindow(c, slot)
	t.response = formatConfirmation(c.MeetingTitle, start, end)
	return nil
}

// bookingWindow books the requested duration inside the slot, at the
// preferred time when it fits and at the slot start otherwise.
func (e *Engine) bookingWindow(c *models.Context, slot models.AvailabilitySlot) (time.Time, time.Time) {
	d := time.Duration(c.Duration) * time.Minute
	start := slot.Start

	if c.PreferredTime != nil {
		day := slot.Start
		preferred := time.Date(day.Year(), day.Month(), day.Day(), c.PreferredTime.Hour, c.PreferredTime.Minute, 0, 0, day.Location())
		if !preferred.Before(slot.Start) && !preferred.Add(d).After(slot.End) {
			start = preferred
		}
	}

	end := start.Add(d)
	if end.After(slot.End) {
		end = slot.End
	}
	return start, end
}

// completeBooking reads the yes/no answer and writes the event on yes.
func (e *Engine) completeBooking(ctx context.Context, t *turn) error {
	c := t.c
	if c.SelectedSlot == nil {
		return errors.New("confirming without a selected slot")
	}

	if !isAffirmative(t.text) {
		if err := transition(c, models.StateInitial); err != nil {
			return err
		}
		c.ClearSelection()
		t.response = declineMessage
		return nil
	}

	start, end := e.bookingWindow(c, *c.SelectedSlot)
	title := c.MeetingTitle
	if title == "" {
		title = models.DefaultMeetingTitle
	}
	description := c.MeetingDescription
	if description == "" {
		description = defaultDescription
	}
	req := models.BookingRequest{
		Title:       title,
		Description: description,
		Start:       start,
		End:         end,
		Attendees:   []string{},
		Status:      models.EventConfirmed,
	}

	if err := e.validate.Struct(req); err != nil {
		return e.bookingFailed(t, fmt.Sprintf("the booking details are invalid (%v)", err))
	}
	if !start.After(t.now) {
		return e.bookingFailed(t, "the selected time has already passed")
	}

	res, err := e.calendar.CreateEvent(ctx, req)
	if err != nil {
		return e.bookingFailed(t, err.Error())
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return e.bookingFailed(t, msg)
	}

	if err := transition(c, models.StateCompleted); err != nil {
		return err
	}
	t.response = "Booking confirmed! " + formatDetails(title, start, end)
	if res.Message != "" {
		t.response += "\n\n" + res.Message
	}

	e.afterBooking(ctx, t, res.ID, title, start, end)
	return nil
}

func (e *Engine) bookingFailed(t *turn, reason string) error {
	err := fmt.Errorf("%w: %s", ErrBookingFailed, reason)
	e.logger.Warn("Booking failed", zap.String("sessionId", t.c.SessionID), zap.Error(err))

	if terr := transition(t.c, models.StateError); terr != nil {
		return terr
	}
	t.response = "I couldn't complete the booking: " + reason
	return nil
}

// afterBooking records the booking and queues its reminder. Failures here
// never undo the booking.
func (e *Engine) afterBooking(ctx context.Context, t *turn, eventID, title string, start, end time.Time) {
	sessionID := t.c.SessionID

	if e.records != nil {
		_, err := e.records.Create(ctx, models.BookingRecord{
			SessionID: sessionID,
			EventID:   eventID,
			Title:     title,
			Start:     start,
			End:       end,
			CreatedAt: t.now,
		})
		if err != nil {
			e.logger.Error("Failed to record booking", zap.String("sessionId", sessionID), zap.Error(err))
			t.warn("booking was not recorded")
		}
	}

	if e.reminders != nil {
		fireAt, ok := tasks.ReminderFireTime(start, e.cfg.ReminderLead, t.now)
		if !ok {
			return
		}
		payload := models.ReminderPayload{
			SessionID: sessionID,
			EventID:   eventID,
			Title:     title,
			Body:      fmt.Sprintf("%s starts at %s", title, start.Format(clockLayout)),
			FireDate:  fireAt.Format(time.RFC3339),
		}
		if err := e.reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
			e.logger.Error("Failed to schedule reminder", zap.String("sessionId", sessionID), zap.Error(err))
			t.warn("reminder was not scheduled")
		}
	}
}

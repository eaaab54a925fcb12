package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookingagent/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// DefaultReminderLead is how long before the meeting the reminder fires.
const DefaultReminderLead = 15 * time.Minute

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}
	if payload.EventID != "" {
		opts = append(opts, asynq.TaskID("reminder:"+payload.EventID))
	}

	return task, opts, nil
}

// ReminderFireTime returns when a reminder for a meeting starting at start
// should fire, and false when that moment has already passed.
func ReminderFireTime(start time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	fireAt := start.Add(-lead)
	if !fireAt.After(now) {
		return time.Time{}, false
	}
	return fireAt, true
}

// ReminderScheduler queues a reminder for a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

type AsynqReminderScheduler struct {
	client *asynq.Client
}

func NewAsynqReminderScheduler(client *asynq.Client) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{client: client}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

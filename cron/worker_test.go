package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bookingagent/models"
	"bookingagent/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap/zaptest"
)

type recordingNotifier struct {
	got []models.ReminderPayload
	err error
}

func (n *recordingNotifier) NotifyReminder(_ context.Context, p models.ReminderPayload) error {
	n.got = append(n.got, p)
	return n.err
}

func TestHandleReminderTask(t *testing.T) {
	logger := zaptest.NewLogger(t)
	payload := models.ReminderPayload{SessionID: "s1", EventID: "evt-1", Title: "Sync"}
	b, _ := json.Marshal(payload)

	n := &recordingNotifier{}
	handler := handleReminderTask(n, logger)
	if err := handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, b)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(n.got) != 1 || n.got[0] != payload {
		t.Errorf("notified %+v, want %+v", n.got, payload)
	}

	failing := &recordingNotifier{err: errors.New("push failed")}
	if err := handleReminderTask(failing, logger)(context.Background(), asynq.NewTask(tasks.TypeSendReminder, b)); err == nil {
		t.Error("notifier failure was swallowed")
	}
}

func TestHandleReminderTaskBadPayload(t *testing.T) {
	n := &recordingNotifier{}
	err := handleReminderTask(n, zaptest.NewLogger(t))(context.Background(), asynq.NewTask(tasks.TypeSendReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("err = %v, want SkipRetry", err)
	}
	if len(n.got) != 0 {
		t.Error("notifier called for a bad payload")
	}
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{Logger: zaptest.NewLogger(t)}
	if err := n.NotifyReminder(context.Background(), models.ReminderPayload{Title: "x"}); err != nil {
		t.Errorf("NotifyReminder: %v", err)
	}
}

package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"bookingagent/models"
	"bookingagent/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderNotifier delivers a due reminder.
type ReminderNotifier interface {
	NotifyReminder(ctx context.Context, p models.ReminderPayload) error
}

// LogNotifier writes due reminders to the log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyReminder(_ context.Context, p models.ReminderPayload) error {
	n.Logger.Info("Reminder due",
		zap.String("sessionId", p.SessionID),
		zap.String("eventId", p.EventID),
		zap.String("title", p.Title),
		zap.String("body", p.Body),
		zap.String("fireDate", p.FireDate))
	return nil
}

// NewReminderWorker builds the asynq server and mux that process reminders.
func NewReminderWorker(redisOpt asynq.RedisClientOpt, concurrency int, notifier ReminderNotifier, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: zapAsynqLogger{logger.Sugar().Named("asynq")},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifier, logger))
	return srv, mux
}

// RunReminderWorker processes reminders until ctx is done.
func RunReminderWorker(ctx context.Context, srv *asynq.Server, mux *asynq.ServeMux, logger *zap.Logger) error {
	logger.Info("[ReminderWorker] Starting async worker")
	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("start reminder worker: %w", err)
	}

	<-ctx.Done()
	srv.Shutdown()
	logger.Info("[ReminderWorker] Stopped")
	return nil
}

func handleReminderTask(notifier ReminderNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[ReminderHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := notifier.NotifyReminder(ctx, p); err != nil {
			logger.Error("[ReminderHandler] Failed to send reminder", zap.String("eventId", p.EventID), zap.Error(err))
			return err
		}
		return nil
	}
}

type zapAsynqLogger struct {
	s *zap.SugaredLogger
}

func (l zapAsynqLogger) Debug(args ...interface{}) { l.s.Debug(args...) }
func (l zapAsynqLogger) Info(args ...interface{})  { l.s.Info(args...) }
func (l zapAsynqLogger) Warn(args ...interface{})  { l.s.Warn(args...) }
func (l zapAsynqLogger) Error(args ...interface{}) { l.s.Error(args...) }
func (l zapAsynqLogger) Fatal(args ...interface{}) { l.s.Fatal(args...) }

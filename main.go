// File: bookingagent/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookingagent/config"
	"bookingagent/cron"
	"bookingagent/database"
	recordsRepo "bookingagent/database/repository/records"
	"bookingagent/handlers"
	"bookingagent/middleware"
	"bookingagent/routes"
	"bookingagent/services/agent"
	"bookingagent/services/calendar"
	ai "bookingagent/services/intelligence"
	"bookingagent/services/tasks"
	"bookingagent/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("main: service stopped with error", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

func run(logger *zap.Logger) error {
	cfg := config.AppConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load timezone %s: %w", cfg.TimeZone, err)
	}

	checks := map[string]utils.HealthCheck{}

	// Conversation context store.
	var store ai.ContextStore
	ttl := time.Duration(cfg.ContextTTLMinutes) * time.Minute
	switch cfg.ContextStore {
	case "redis":
		client, err := utils.InitContextCache(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
		store = ai.NewRedisContextStore(client, ttl)
		checks["redis"] = utils.RedisCheck(client)
	default:
		store = ai.NewMemoryContextStore(ttl)
	}

	// Booking ledger.
	var records recordsRepo.BookingRecordRepository
	switch cfg.RecordsStore {
	case "mongo":
		client, err := database.InitDB(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		if records, err = recordsRepo.NewMongoRecordRepo(client, cfg.DatabaseName); err != nil {
			return err
		}
		checks["mongo"] = utils.MongoCheck(client)
	default:
		records = recordsRepo.NewMemoryRecordRepo()
	}

	generator, closeGenerator, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGenerator()

	cal, err := newCalendar(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := []agent.Option{agent.WithRecords(records)}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RemindersEnabled {
		redisOpt := utils.QueueRedisOpt()
		client := asynq.NewClient(redisOpt)
		defer client.Close()
		opts = append(opts, agent.WithReminders(tasks.NewAsynqReminderScheduler(client)))

		srv, mux := cron.NewReminderWorker(redisOpt, cfg.WorkerConcurrency, cron.LogNotifier{Logger: logger}, logger)
		g.Go(func() error { return cron.RunReminderWorker(gctx, srv, mux, logger) })
	}

	engine := agent.New(store, generator, cal, agent.Config{
		WorkStartHour:  cfg.WorkStartHour,
		WorkEndHour:    cfg.WorkEndHour,
		LookaheadDays:  cfg.LookaheadDays,
		MaxSuggestions: cfg.MaxSuggestions,
		ReminderLead:   time.Duration(cfg.ReminderLeadMinutes) * time.Minute,
		Location:       loc,
	}, logger, opts...)

	monitor := utils.NewHealthMonitor(checks, logger)
	g.Go(func() error {
		monitor.Run(gctx, time.Minute)
		return nil
	})

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewChatHandler(engine, store),
		handlers.NewBookingHandler(records),
		handlers.NewHealthHandler(monitor),
	)
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("main: server is shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newGenerator(ctx context.Context, cfg config.Config) (ai.Generator, func(), error) {
	switch cfg.AIProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	case "openai":
		timeout := time.Duration(cfg.AITimeoutSeconds) * time.Second
		return ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, timeout), func() {}, nil
	default:
		return ai.NewLocalGenerator(), func() {}, nil
	}
}

func newCalendar(ctx context.Context, cfg config.Config, logger *zap.Logger) (calendar.Service, error) {
	if cfg.CalendarProvider != "google" {
		logger.Warn("Using the in-memory calendar; bookings are lost on restart")
		return calendar.NewMemoryCalendar(), nil
	}
	return calendar.NewGoogleCalendar(ctx, calendar.GoogleOptions{
		CredentialsPath: cfg.GoogleCredentialsPath,
		TokenPath:       cfg.GoogleTokenPath,
		CalendarID:      cfg.GoogleCalendarID,
		TimeZone:        cfg.TimeZone,
	}, logger)
}

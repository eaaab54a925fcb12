package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	recordsRepo "bookingagent/database/repository/records"
	"bookingagent/models"
	"bookingagent/services/calendar"
	"bookingagent/services/extractor"
	"bookingagent/services/intelligence"
	"bookingagent/services/retry"
	"bookingagent/services/tasks"
)

const maxMessageLength = 2000

// Config holds the scheduling knobs of the engine.
type Config struct {
	WorkStartHour  int
	WorkEndHour    int
	LookaheadDays  int
	MaxSuggestions int
	HistoryTurns   int
	ReminderLead   time.Duration
	Location       *time.Location
}

// DefaultConfig searches 09:00-17:00 UTC over three days and offers three slots.
func DefaultConfig() Config {
	return Config{
		WorkStartHour:  9,
		WorkEndHour:    17,
		LookaheadDays:  3,
		MaxSuggestions: 3,
		HistoryTurns:   3,
		ReminderLead:   tasks.DefaultReminderLead,
		Location:       time.UTC,
	}
}

// Result is the outcome of one ProcessMessage call.
type Result struct {
	Response string
	State    models.ConversationState
	Context  *models.Context
	Warnings []string
}

// Engine runs the booking conversation, one step per user message.
type Engine struct {
	store     intelligence.ContextStore
	generator intelligence.Generator
	calendar  calendar.Service
	records   recordsRepo.BookingRecordRepository
	reminders tasks.ReminderScheduler

	cfg       Config
	policy    retry.Policy
	extractor *extractor.Extractor
	validate  *validator.Validate
	locks     *keyedMutex
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Engine)

// WithRecords writes a ledger entry for every confirmed booking.
func WithRecords(r recordsRepo.BookingRecordRepository) Option {
	return func(e *Engine) { e.records = r }
}

// WithReminders schedules a reminder before every confirmed booking.
func WithReminders(s tasks.ReminderScheduler) Option {
	return func(e *Engine) { e.reminders = s }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func New(
	store intelligence.ContextStore,
	generator intelligence.Generator,
	cal calendar.Service,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *Engine {
	def := DefaultConfig()
	if cfg.LookaheadDays <= 0 {
		cfg.LookaheadDays = def.LookaheadDays
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = def.HistoryTurns
	}
	if cfg.WorkEndHour == 0 {
		cfg.WorkStartHour, cfg.WorkEndHour = def.WorkStartHour, def.WorkEndHour
	}
	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = def.ReminderLead
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}

	policy := retry.Default(intelligence.IsRetryable)
	policy.OnRetry = func(err error, wait time.Duration) {
		logger.Warn("Generation rate limited, retrying", zap.Duration("wait", wait), zap.Error(err))
	}

	e := &Engine{
		store:     store,
		generator: generator,
		calendar:  cal,
		cfg:       cfg,
		policy:    policy,
		extractor: extractor.New(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		locks:     newKeyedMutex(),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// turn is the working state of one ProcessMessage call.
type turn struct {
	c        *models.Context
	text     string
	now      time.Time
	ex       extractor.Extraction
	response string
	warnings []string
}

func (t *turn) warn(msg string) {
	t.warnings = append(t.warnings, msg)
}

// ProcessMessage runs one conversation step for sessionID and stores the
// updated Context. Only input and session store failures are returned as
// errors; everything else is folded into the Result.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if len(text) > maxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", ErrInvalidInput, maxMessageLength)
	}

	unlock := e.locks.Lock(sessionID)
	defer unlock()

	now := e.now().In(e.cfg.Location)
	c, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if c == nil || c.State.Terminal() {
		c = models.NewContext(sessionID, now)
	}

	t := &turn{c: c, text: text, now: now}
	c.AddMessage(models.RoleUser, text, now)

	t.ex = e.extractor.Extract(text, now)
	s := route(c, t.ex, text, e.cfg.MaxSuggestions)

	log := e.logger.With(zap.String("sessionId", sessionID), zap.String("step", s.String()))
	log.Debug("Routing message", zap.String("state", string(c.State)))

	if err := e.runStep(ctx, s, t); err != nil {
		log.Error("Step failed", zap.Error(err))
		fail(c)
		t.response = "Sorry, something went wrong while handling your request. Please start again."
	}

	c.AddMessage(models.RoleAssistant, t.response, e.now().In(e.cfg.Location))
	if err := e.store.Set(ctx, c); err != nil {
		log.Error("Failed to save session", zap.Error(err))
		t.warn("session could not be saved")
	}

	log.Info("Message processed", zap.String("state", string(c.State)))
	return &Result{
		Response: t.response,
		State:    c.State,
		Context:  c,
		Warnings: t.warnings,
	}, nil
}

// runStep executes s and converts panics into a StepError.
func (e *Engine) runStep(ctx context.Context, s step, t *turn) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Recovered panic in step", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = &StepError{Step: s.String(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	switch s {
	case stepCompleteBooking:
		err = e.completeBooking(ctx, t)
	case stepSelectSlot:
		err = e.selectSlot(t)
	case stepReprompt:
		t.response = repromptMessage
	case stepCheckAvailability:
		e.mergeExtraction(t)
		err = e.checkAvailability(ctx, t)
	default:
		e.mergeExtraction(t)
		err = e.understandIntent(ctx, t)
	}

	var stepErr *StepError
	if err != nil && !errors.As(err, &stepErr) {
		err = &StepError{Step: s.String(), Err: err}
	}
	return err
}

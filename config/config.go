package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT" validate:"required,numeric"`
	Env               string `mapstructure:"ENV" validate:"oneof=development production test"`
	LogLevel          string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN" validate:"gt=0"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB" validate:"gte=0"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB" validate:"gte=0"`

	// Conversation context storage.
	ContextStore      string `mapstructure:"CONTEXT_STORE" validate:"oneof=redis memory"`
	ContextTTLMinutes int    `mapstructure:"CONTEXT_TTL_MINUTES" validate:"gt=0"`

	// Booking ledger.
	RecordsStore string `mapstructure:"RECORDS_STORE" validate:"oneof=mongo memory"`
	DatabaseURL  string `mapstructure:"DATABASE_URL" validate:"required_if=RecordsStore mongo"`
	DatabaseName string `mapstructure:"DATABASE_NAME" validate:"required_if=RecordsStore mongo"`

	// Generation backend.
	AIProvider       string `mapstructure:"AI_PROVIDER" validate:"oneof=gemini openai local"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY" validate:"required_if=AIProvider gemini"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY" validate:"required_if=AIProvider openai"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL" validate:"omitempty,url"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS" validate:"gt=0"`

	// Calendar collaborator.
	CalendarProvider      string `mapstructure:"CALENDAR_PROVIDER" validate:"oneof=google memory"`
	GoogleCredentialsPath string `mapstructure:"GOOGLE_CREDENTIALS_PATH" validate:"required_if=CalendarProvider google"`
	GoogleTokenPath       string `mapstructure:"GOOGLE_TOKEN_PATH" validate:"required_if=CalendarProvider google"`
	GoogleCalendarID      string `mapstructure:"GOOGLE_CALENDAR_ID" validate:"required"`
	TimeZone              string `mapstructure:"TIMEZONE" validate:"required,timezone"`

	// Scheduling.
	WorkStartHour  int `mapstructure:"WORK_START_HOUR" validate:"gte=0,lte=23"`
	WorkEndHour    int `mapstructure:"WORK_END_HOUR" validate:"gte=1,lte=24,gtfield=WorkStartHour"`
	LookaheadDays  int `mapstructure:"LOOKAHEAD_DAYS" validate:"gte=1,lte=31"`
	MaxSuggestions int `mapstructure:"MAX_SUGGESTIONS" validate:"gte=1,lte=9"`

	// Reminders.
	RemindersEnabled    bool `mapstructure:"REMINDERS_ENABLED"`
	ReminderLeadMinutes int  `mapstructure:"REMINDER_LEAD_MINUTES" validate:"gt=0"`
	WorkerConcurrency   int  `mapstructure:"WORKER_CONCURRENCY" validate:"gt=0"`
}

var AppConfig Config

var defaults = map[string]any{
	"APP_PORT":             "8080",
	"ENV":                  "development",
	"LOG_LEVEL":            "info",
	"MAX_REQUESTS_PER_MIN": 100,

	"REDIS_ADDR":       "localhost:6379",
	"REDIS_PASSWORD":   "",
	"REDIS_CONTEXT_DB": 0,
	"REDIS_QUEUE_DB":   1,

	"CONTEXT_STORE":       "redis",
	"CONTEXT_TTL_MINUTES": 30,

	"RECORDS_STORE": "memory",
	"DATABASE_URL":  "mongodb://localhost:27017",
	"DATABASE_NAME": "bookingagent",

	"AI_PROVIDER":        "local",
	"GEMINI_API_KEY":     "",
	"GEMINI_MODEL":       "gemini-1.5-flash",
	"OPENAI_API_KEY":     "",
	"OPENAI_BASE_URL":    "",
	"OPENAI_MODEL":       "gpt-4o-mini",
	"AI_TIMEOUT_SECONDS": 30,

	"CALENDAR_PROVIDER":       "memory",
	"GOOGLE_CREDENTIALS_PATH": "credentials.json",
	"GOOGLE_TOKEN_PATH":       "token.json",
	"GOOGLE_CALENDAR_ID":      "primary",
	"TIMEZONE":                "UTC",

	"WORK_START_HOUR": 9,
	"WORK_END_HOUR":   17,
	"LOOKAHEAD_DAYS":  3,
	"MAX_SUGGESTIONS": 3,

	"REMINDERS_ENABLED":     false,
	"REMINDER_LEAD_MINUTES": 15,
	"WORKER_CONCURRENCY":    5,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads config.yaml from "." or "./config", applies environment
// overrides and defaults, and validates the result.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

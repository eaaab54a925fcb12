package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", cfg.AppPort)
	}
	if cfg.WorkStartHour != 9 || cfg.WorkEndHour != 17 {
		t.Errorf("working hours = %d-%d, want 9-17", cfg.WorkStartHour, cfg.WorkEndHour)
	}
	if cfg.AIProvider != "local" || cfg.CalendarProvider != "memory" {
		t.Errorf("providers = %s/%s, want local/memory", cfg.AIProvider, cfg.CalendarProvider)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOOKAHEAD_DAYS", "5")
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "9090" || cfg.LookaheadDays != 5 || cfg.TimeZone != "Europe/Berlin" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"gemini without key", map[string]string{"AI_PROVIDER": "gemini"}, "GeminiAPIKey"},
		{"openai without key", map[string]string{"AI_PROVIDER": "openai"}, "OpenAIAPIKey"},
		{"unknown provider", map[string]string{"AI_PROVIDER": "markov"}, "AIProvider"},
		{"inverted hours", map[string]string{"WORK_START_HOUR": "18", "WORK_END_HOUR": "9"}, "WorkEndHour"},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}, "TimeZone"},
		{"bad store", map[string]string{"CONTEXT_STORE": "disk"}, "ContextStore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(viper.New())
			if err == nil {
				t.Fatal("Load succeeded, want a validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "config.yaml", "APP_PORT: \"7000\"\nMAX_SUGGESTIONS: 5\n")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "7000" || cfg.MaxSuggestions != 5 {
		t.Errorf("file values not applied: port %s, suggestions %d", cfg.AppPort, cfg.MaxSuggestions)
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	testCases := map[string]string{
		"PORT":                   "9090",
		"ENVIRONMENT":            "test",
		"GROQ_API_KEY":           "test-key",
		"GROQ_BASE_URL":          "https://groq.test/openai/v1",
		"GROQ_MODEL":             "groq/compound-mini",
		"GROQ_FALLBACK_MODEL":    "llama-3.3-70b-versatile",
		"OPENWEATHERMAP_API_KEY": "weather-key",
		"DATA_ROOT":              "testdata",
	}

	for key, value := range testCases {
		os.Setenv(key, value)
	}

	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.GroqAPIKey != "test-key" {
		t.Errorf("Expected GroqAPIKey to be 'test-key', got '%s'", cfg.GroqAPIKey)
	}

	if cfg.GroqBaseURL != "https://groq.test/openai/v1" {
		t.Errorf("Expected GroqBaseURL to be 'https://groq.test/openai/v1', got '%s'", cfg.GroqBaseURL)
	}

	if cfg.OpenWeatherMapAPIKey != "weather-key" {
		t.Errorf("Expected OpenWeatherMapAPIKey to be 'weather-key', got '%s'", cfg.OpenWeatherMapAPIKey)
	}

	if cfg.DataRoot != "testdata" {
		t.Errorf("Expected DataRoot to be 'testdata', got '%s'", cfg.DataRoot)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	vars := []string{
		"PORT", "ENVIRONMENT", "GROQ_API_KEY", "GROQ_BASE_URL",
		"GROQ_MODEL", "GROQ_FALLBACK_MODEL", "GROQ_SIMPLE_MODEL",
		"OPENWEATHERMAP_API_KEY", "DATA_ROOT",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}

	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}

	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("Expected default GroqBaseURL, got '%s'", cfg.GroqBaseURL)
	}

	if cfg.GroqModel != "groq/compound-mini" {
		t.Errorf("Expected default GroqModel to be 'groq/compound-mini', got '%s'", cfg.GroqModel)
	}

	if cfg.DataRoot != "data" {
		t.Errorf("Expected default DataRoot to be 'data', got '%s'", cfg.DataRoot)
	}
}

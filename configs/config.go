package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port                 string
	Environment          string
	GroqAPIKey           string
	GroqBaseURL          string
	GroqModel            string
	GroqFallbackModel    string
	GroqSimpleModel      string
	OpenWeatherMapAPIKey string
	DataRoot             string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		GroqAPIKey:           getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:          getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:            getEnv("GROQ_MODEL", "groq/compound-mini"),
		GroqFallbackModel:    getEnv("GROQ_FALLBACK_MODEL", "llama-3.3-70b-versatile"),
		GroqSimpleModel:      getEnv("GROQ_SIMPLE_MODEL", "llama-3.1-8b-instant"),
		OpenWeatherMapAPIKey: getEnv("OPENWEATHERMAP_API_KEY", ""),
		DataRoot:             getEnv("DATA_ROOT", "data"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

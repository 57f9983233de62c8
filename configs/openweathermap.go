package config

// OpenWeatherMapConfig holds OpenWeatherMap API settings
type OpenWeatherMapConfig struct {
	APIKey  string
	BaseURL string
}

// GetOpenWeatherMapConfig reads OpenWeatherMap settings from the environment
func GetOpenWeatherMapConfig() *OpenWeatherMapConfig {
	return &OpenWeatherMapConfig{
		APIKey:  getEnv("OPENWEATHERMAP_API_KEY", ""),
		BaseURL: getEnv("OPENWEATHERMAP_BASE_URL", "https://api.openweathermap.org/data/2.5"),
	}
}

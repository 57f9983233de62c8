package main

import (
	"context"
	"fmt"
	"log"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/services"

	"github.com/joho/godotenv"
)

// Manual probe for the OpenWeather integration. Run with a real
// OPENWEATHERMAP_API_KEY to check live responses, or without one to see
// the mock fallback.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	weatherService := services.NewWeatherService(config.GetOpenWeatherMapConfig())
	ctx := context.Background()

	cities := []string{"Ranchi", "Kochi", "Lucknow", "Bengaluru"}
	for _, city := range cities {
		fmt.Printf("\n--- %s ---\n", city)

		current, err := weatherService.GetCurrentWeather(ctx, city)
		if err != nil {
			log.Printf("current weather failed: %v", err)
			continue
		}
		fmt.Printf("Now: %.1f°C, humidity %d%%\n", current.Current.Temp, current.Current.Humidity)

		forecast, err := weatherService.GetForecast(ctx, city)
		if err != nil {
			log.Printf("forecast failed: %v", err)
			continue
		}
		fmt.Printf("Forecast entries: %d\n", len(forecast.Forecast))
	}

	agri, err := weatherService.GetAgriculturalForecast(ctx, "Ranchi")
	if err != nil {
		log.Fatalf("agricultural forecast failed: %v", err)
	}
	fmt.Printf("\nSeason: %s, ideal crops: %v\n",
		agri.SeasonalInsight.CurrentSeason, agri.SeasonalInsight.IdealCrops)
}

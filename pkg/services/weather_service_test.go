package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "bhoomi-advisory-api/configs"
)

func newMockWeatherService() *WeatherService {
	return NewWeatherService(&config.OpenWeatherMapConfig{APIKey: "", BaseURL: "https://api.openweathermap.org/data/2.5"})
}

func TestGetCurrentWeatherMock(t *testing.T) {
	svc := newMockWeatherService()

	data, err := svc.GetCurrentWeather(context.Background(), "Ranchi")
	require.NoError(t, err)
	assert.Equal(t, "IN", data.Location.Country)
	assert.Greater(t, data.Current.Temp, 0.0)
	assert.NotEmpty(t, data.Current.Weather)
}

func TestGetForecastMockHasFiveDays(t *testing.T) {
	svc := newMockWeatherService()

	data, err := svc.GetForecast(context.Background(), "Ranchi")
	require.NoError(t, err)
	assert.Len(t, data.Forecast, 5)
	assert.Equal(t, "Ranchi", data.Location.Name)
}

func TestGetForecastByCoordsMock(t *testing.T) {
	svc := newMockWeatherService()

	data, err := svc.GetForecastByCoords(context.Background(), 23.36, 85.33)
	require.NoError(t, err)
	assert.Len(t, data.Forecast, 5)
}

func TestGetAgriculturalForecastByCoords(t *testing.T) {
	svc := newMockWeatherService()
	svc.now = func() time.Time { return time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC) }

	forecast, err := svc.GetAgriculturalForecastByCoords(context.Background(), 23.36, 85.33)
	require.NoError(t, err)
	assert.Equal(t, "Rabi", forecast.SeasonalInsight.CurrentSeason)
	assert.Len(t, forecast.Outlook, 4)
}

func TestGetAgriculturalForecast(t *testing.T) {
	svc := newMockWeatherService()
	svc.now = func() time.Time { return time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC) }

	forecast, err := svc.GetAgriculturalForecast(context.Background(), "Ranchi")
	require.NoError(t, err)

	assert.Equal(t, "Kharif", forecast.SeasonalInsight.CurrentSeason)
	assert.Contains(t, forecast.SeasonalInsight.IdealCrops, "Rice")
	assert.Len(t, forecast.Outlook, 4)
	assert.Equal(t, "July 2026", forecast.Outlook[0].Month)
	assert.NotEmpty(t, forecast.Advice.Planting)
	assert.NotEmpty(t, forecast.Advice.RiskFactors)
}

func TestSeasonalInsightFor(t *testing.T) {
	assert.Equal(t, "Kharif", seasonalInsightFor(time.August).CurrentSeason)
	assert.Equal(t, "Rabi", seasonalInsightFor(time.December).CurrentSeason)
	assert.Equal(t, "Rabi", seasonalInsightFor(time.February).CurrentSeason)
	assert.Equal(t, "Zaid", seasonalInsightFor(time.April).CurrentSeason)
}

func TestFieldAdviceTables(t *testing.T) {
	assert.Contains(t, irrigationAdvice(12, 60, 25), "waterlogging")
	assert.Contains(t, irrigationAdvice(1, 60, 32), "drip")
	assert.Contains(t, fertilizationAdvice("Kharif", 2), "split doses")
	assert.Contains(t, fertilizationAdvice("Rabi", 2), "phosphorus and potassium")
	assert.Contains(t, pestManagementAdvice(30, 80), "High pest activity")
	assert.Contains(t, pestManagementAdvice(24, 50), "IPM")
}

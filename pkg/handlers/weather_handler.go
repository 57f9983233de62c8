package handlers

import (
	"math"
	"net/http"
	"strconv"

	"bhoomi-advisory-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// WeatherHandler serves current conditions, forecasts and the
// agricultural outlook.
type WeatherHandler struct {
	weatherService *services.WeatherService
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// GetCurrentWeather returns current conditions for ?city=.
func (h *WeatherHandler) GetCurrentWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		respondError(c, http.StatusBadRequest, "City parameter is required")
		return
	}

	weather, err := h.weatherService.GetCurrentWeather(c.Request.Context(), city)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to fetch weather: "+err.Error())
		return
	}
	respondOK(c, weather)
}

// parseCoords reads and validates the lat/lon query parameters, writing
// the 400 response itself when they are missing or malformed.
func parseCoords(c *gin.Context) (float64, float64, bool) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		respondError(c, http.StatusBadRequest, "Latitude and longitude parameters are required")
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil || math.IsNaN(lat) || math.IsNaN(lon) {
		respondError(c, http.StatusBadRequest, "Invalid latitude or longitude values")
		return 0, 0, false
	}
	return lat, lon, true
}

// GetWeatherByCoordinates returns current conditions for ?lat=&lon=.
func (h *WeatherHandler) GetWeatherByCoordinates(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	weather, err := h.weatherService.GetCurrentWeatherByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to fetch weather: "+err.Error())
		return
	}
	respondOK(c, weather)
}

// GetForecast returns the 5-day forecast for ?lat=&lon=. A ?city= query
// is accepted as an alternative when no coordinates are given.
func (h *WeatherHandler) GetForecast(c *gin.Context) {
	if city := c.Query("city"); city != "" && c.Query("lat") == "" && c.Query("lon") == "" {
		forecast, err := h.weatherService.GetForecast(c.Request.Context(), city)
		if err != nil {
			respondError(c, http.StatusBadGateway, "Failed to fetch forecast: "+err.Error())
			return
		}
		respondOK(c, forecast)
		return
	}

	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	forecast, err := h.weatherService.GetForecastByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to fetch forecast: "+err.Error())
		return
	}
	respondOK(c, forecast)
}

// GetExtendedForecast returns the agricultural outlook for ?lat=&lon=.
func (h *WeatherHandler) GetExtendedForecast(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	forecast, err := h.weatherService.GetAgriculturalForecastByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to build extended forecast: "+err.Error())
		return
	}
	respondOK(c, forecast)
}

// GetAgriculturalForecast returns the extended outlook for a city,
// defaulting to Ranchi.
func (h *WeatherHandler) GetAgriculturalForecast(c *gin.Context) {
	city := c.DefaultQuery("city", "Ranchi")

	forecast, err := h.weatherService.GetAgriculturalForecast(c.Request.Context(), city)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to build agricultural forecast: "+err.Error())
		return
	}
	respondOK(c, forecast)
}

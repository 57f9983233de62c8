package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/models"
)

const weatherCacheTTL = 10 * time.Minute

// WeatherService fetches OpenWeatherMap readings with a short in-memory
// cache. Without an API key it serves deterministic mock data so the
// advisory endpoints stay usable in development.
type WeatherService struct {
	client  *resty.Client
	apiKey  string
	baseURL string

	mu    sync.RWMutex
	cache map[string]weatherCacheEntry
	now   func() time.Time
}

type weatherCacheEntry struct {
	data     models.WeatherData
	storedAt time.Time
}

// NewWeatherService creates the weather client from config.
func NewWeatherService(cfg *config.OpenWeatherMapConfig) *WeatherService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second)

	if cfg.APIKey == "" {
		log.Println("OPENWEATHERMAP_API_KEY not set, serving mock weather data")
	}

	return &WeatherService{
		client:  client,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		cache:   make(map[string]weatherCacheEntry),
		now:     time.Now,
	}
}

// Boundary structs for the OpenWeatherMap JSON.
type owMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type owCurrentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main       owMain `json:"main"`
	Visibility int    `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []models.WeatherCondition `json:"weather"`
}

type owForecastResponse struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Coord   struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
	List []struct {
		DtTxt   string                    `json:"dt_txt"`
		Main    owMain                    `json:"main"`
		Weather []models.WeatherCondition `json:"weather"`
		Rain    struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// GetCurrentWeather returns current conditions for a city.
func (s *WeatherService) GetCurrentWeather(ctx context.Context, city string) (models.WeatherData, error) {
	return s.fetchCurrent(ctx, "q="+city, "current:"+strings.ToLower(city))
}

// GetCurrentWeatherByCoords returns current conditions for coordinates.
func (s *WeatherService) GetCurrentWeatherByCoords(ctx context.Context, lat, lon float64) (models.WeatherData, error) {
	query := fmt.Sprintf("lat=%.4f&lon=%.4f", lat, lon)
	return s.fetchCurrent(ctx, query, "current:"+query)
}

func (s *WeatherService) fetchCurrent(ctx context.Context, query, cacheKey string) (models.WeatherData, error) {
	if data, ok := s.cached(cacheKey); ok {
		return data, nil
	}

	if s.apiKey == "" {
		return s.mockWeather(), nil
	}

	url := fmt.Sprintf("%s/weather?%s&appid=%s&units=metric", s.baseURL, query, s.apiKey)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("weather request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return models.WeatherData{}, fmt.Errorf("weather API returned status %d", resp.StatusCode())
	}

	var raw owCurrentResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	data := models.WeatherData{
		Location: models.WeatherLocation{
			Name:    raw.Name,
			Country: raw.Sys.Country,
			Lat:     raw.Coord.Lat,
			Lon:     raw.Coord.Lon,
		},
		Current: models.CurrentWeather{
			Temp:       raw.Main.Temp,
			FeelsLike:  raw.Main.FeelsLike,
			Humidity:   raw.Main.Humidity,
			Pressure:   raw.Main.Pressure,
			Visibility: raw.Visibility,
			WindSpeed:  raw.Wind.Speed,
			WindDeg:    raw.Wind.Deg,
			Weather:    raw.Weather,
		},
	}
	s.store(cacheKey, data)
	return data, nil
}

// GetForecast returns one entry per day over the 5-day forecast.
func (s *WeatherService) GetForecast(ctx context.Context, city string) (models.WeatherData, error) {
	return s.fetchForecast(ctx, "q="+city, "forecast:"+strings.ToLower(city), city)
}

// GetForecastByCoords returns the 5-day forecast for coordinates.
func (s *WeatherService) GetForecastByCoords(ctx context.Context, lat, lon float64) (models.WeatherData, error) {
	query := fmt.Sprintf("lat=%.4f&lon=%.4f", lat, lon)
	return s.fetchForecast(ctx, query, "forecast:"+query, "Ranchi")
}

func (s *WeatherService) fetchForecast(ctx context.Context, query, cacheKey, mockCity string) (models.WeatherData, error) {
	if data, ok := s.cached(cacheKey); ok {
		return data, nil
	}

	if s.apiKey == "" {
		return s.mockForecast(mockCity), nil
	}

	url := fmt.Sprintf("%s/forecast?%s&appid=%s&units=metric", s.baseURL, query, s.apiKey)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("forecast request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return models.WeatherData{}, fmt.Errorf("forecast API returned status %d", resp.StatusCode())
	}

	var raw owForecastResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	data := models.WeatherData{
		Location: models.WeatherLocation{
			Name:    raw.City.Name,
			Country: raw.City.Country,
			Lat:     raw.City.Coord.Lat,
			Lon:     raw.City.Coord.Lon,
		},
	}

	// The 3-hourly list yields one representative entry per day.
	for i := 0; i < len(raw.List) && len(data.Forecast) < 5; i += 8 {
		item := raw.List[i]
		description := ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
		}
		data.Forecast = append(data.Forecast, models.ForecastEntry{
			Date:        item.DtTxt,
			Temp:        item.Main.Temp,
			TempMin:     item.Main.TempMin,
			TempMax:     item.Main.TempMax,
			Humidity:    item.Main.Humidity,
			Weather:     item.Weather,
			Rain:        item.Rain.ThreeHours,
			Description: description,
		})
	}

	s.store(cacheKey, data)
	return data, nil
}

// GetAgriculturalForecast combines the forecast with cropping-season
// insights, field recommendations and a 4-month outlook.
func (s *WeatherService) GetAgriculturalForecast(ctx context.Context, city string) (models.ExtendedForecast, error) {
	weather, err := s.GetForecast(ctx, city)
	if err != nil {
		return models.ExtendedForecast{}, err
	}

	if current, err := s.GetCurrentWeather(ctx, city); err == nil {
		weather.Current = current.Current
	}

	return s.extendedForecast(weather), nil
}

// GetAgriculturalForecastByCoords is the coordinate variant of the
// extended agricultural outlook.
func (s *WeatherService) GetAgriculturalForecastByCoords(ctx context.Context, lat, lon float64) (models.ExtendedForecast, error) {
	weather, err := s.GetForecastByCoords(ctx, lat, lon)
	if err != nil {
		return models.ExtendedForecast{}, err
	}

	if current, err := s.GetCurrentWeatherByCoords(ctx, lat, lon); err == nil {
		weather.Current = current.Current
	}

	return s.extendedForecast(weather), nil
}

func (s *WeatherService) extendedForecast(weather models.WeatherData) models.ExtendedForecast {
	now := s.now()
	insight := seasonalInsightFor(now.Month())

	return models.ExtendedForecast{
		Weather:         weather,
		SeasonalInsight: insight,
		Advice:          agriculturalAdvice(weather, insight),
		Outlook:         monthlyOutlook(now, 4),
	}
}

func (s *WeatherService) cached(key string) (models.WeatherData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[key]
	if !ok || s.now().Sub(entry.storedAt) > weatherCacheTTL {
		return models.WeatherData{}, false
	}
	return entry.data, true
}

func (s *WeatherService) store(key string, data models.WeatherData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = weatherCacheEntry{data: data, storedAt: s.now()}
}

func (s *WeatherService) mockWeather() models.WeatherData {
	return models.WeatherData{
		Location: models.WeatherLocation{Name: "Ranchi", Country: "IN", Lat: 23.3441, Lon: 85.3096},
		Current: models.CurrentWeather{
			Temp:      27.5,
			FeelsLike: 29.0,
			Humidity:  65,
			Pressure:  1008,
			WindSpeed: 3.2,
			Weather:   []models.WeatherCondition{{Main: "Clouds", Description: "scattered clouds"}},
		},
	}
}

func (s *WeatherService) mockForecast(city string) models.WeatherData {
	data := s.mockWeather()
	data.Location.Name = city
	base := s.now()
	for i := 0; i < 5; i++ {
		data.Forecast = append(data.Forecast, models.ForecastEntry{
			Date:        base.AddDate(0, 0, i).Format("2006-01-02 12:00:00"),
			Temp:        26 + float64(i),
			TempMin:     21 + float64(i),
			TempMax:     31 + float64(i),
			Humidity:    60,
			Rain:        float64(i) * 1.5,
			Description: "scattered clouds",
			Weather:     []models.WeatherCondition{{Main: "Clouds", Description: "scattered clouds"}},
		})
	}
	return data
}

// seasonalInsightFor maps a month to the Indian cropping macro-season.
func seasonalInsightFor(month time.Month) models.SeasonalInsight {
	switch {
	case month >= time.June && month <= time.October:
		return models.SeasonalInsight{
			CurrentSeason: "Kharif",
			IdealCrops:    []string{"Rice", "Maize", "Cotton", "Sugarcane", "Pulses", "Oilseeds"},
			KeyFactors:    []string{"Monsoon timing", "Rainfall distribution", "Humidity levels", "Temperature range"},
		}
	case month >= time.November || month <= time.March:
		return models.SeasonalInsight{
			CurrentSeason: "Rabi",
			IdealCrops:    []string{"Wheat", "Barley", "Peas", "Gram", "Mustard", "Chickpea"},
			KeyFactors:    []string{"Temperature control", "Irrigation scheduling", "Frost protection", "Soil moisture"},
		}
	default:
		return models.SeasonalInsight{
			CurrentSeason: "Zaid",
			IdealCrops:    []string{"Watermelon", "Muskmelon", "Cucumber", "Fodder crops", "Maize"},
			KeyFactors:    []string{"Heat tolerance", "Water availability", "Quick maturation", "Market timing"},
		}
	}
}

func agriculturalAdvice(weather models.WeatherData, insight models.SeasonalInsight) models.AgriculturalAdvice {
	temp := weather.Current.Temp
	humidity := weather.Current.Humidity

	avgRain := 0.0
	if len(weather.Forecast) > 0 {
		for _, day := range weather.Forecast {
			avgRain += day.Rain
		}
		avgRain /= float64(len(weather.Forecast))
	}

	var planting []string
	if temp > 15 {
		planting = append(planting, "Soil temperature optimal for most crops")
	} else {
		planting = append(planting, "Too cold for warm-season crops, wait or use protected cultivation")
	}
	planting = append(planting, "Planting window: "+plantingWindow(insight.CurrentSeason))
	if humidity < 50 {
		planting = append(planting, "Ensure adequate irrigation setup")
	}

	care := []string{
		irrigationAdvice(avgRain, humidity, temp),
		fertilizationAdvice(insight.CurrentSeason, avgRain),
		pestManagementAdvice(temp, humidity),
	}

	harvesting := []string{harvestingAdvice(insight.CurrentSeason)}
	rainyDays := 0
	for _, day := range weather.Forecast {
		if day.Rain > 2 {
			rainyDays++
		}
	}
	if rainyDays > 2 {
		harvesting = append(harvesting, "Delay harvest, wet conditions expected")
	} else {
		harvesting = append(harvesting, "Good harvesting conditions in forecast period")
	}

	var risks []string
	if temp > 40 {
		risks = append(risks, "Heat stress on crops")
	}
	if humidity > 90 {
		risks = append(risks, "High humidity disease risk")
	}
	for _, day := range weather.Forecast {
		if day.Rain > 50 {
			risks = append(risks, "Heavy rainfall/flooding risk")
			break
		}
	}
	if len(risks) == 0 {
		risks = append(risks, "No acute weather risks in forecast period")
	}

	return models.AgriculturalAdvice{
		Planting:    planting,
		CropCare:    care,
		Harvesting:  harvesting,
		RiskFactors: risks,
	}
}

var plantingWindows = map[string]string{
	"Kharif": "June-July (with monsoon onset)",
	"Rabi":   "October-November (post-monsoon)",
	"Zaid":   "March-April (pre-summer)",
}

func plantingWindow(season string) string {
	if w, ok := plantingWindows[season]; ok {
		return w
	}
	return "Consult local agricultural calendar"
}

func irrigationAdvice(rainfall float64, humidity int, temp float64) string {
	switch {
	case rainfall > 10:
		return "Reduce irrigation, monitor for waterlogging"
	case rainfall < 2 && temp > 30:
		return "Increase irrigation frequency, consider drip systems"
	case humidity < 40:
		return "Monitor soil moisture closely, may need daily watering"
	default:
		return "Maintain regular irrigation schedule based on crop needs"
	}
}

func fertilizationAdvice(season string, rainfall float64) string {
	switch {
	case rainfall > 15:
		return "Delay fertilizer application, risk of nutrient leaching"
	case season == "Kharif":
		return "Apply nitrogen in split doses, phosphorus at planting"
	case season == "Rabi":
		return "Focus on phosphorus and potassium, moderate nitrogen"
	default:
		return "Apply balanced fertilizers based on soil test results"
	}
}

func pestManagementAdvice(temp float64, humidity int) string {
	switch {
	case temp > 28 && humidity > 70:
		return "High pest activity expected, monitor closely"
	case temp < 20:
		return "Low pest pressure, routine monitoring sufficient"
	default:
		return "Moderate pest risk, implement IPM practices"
	}
}

var harvestingWindows = map[string]string{
	"Kharif": "September-October, avoid rainy periods",
	"Rabi":   "March-April, ideal dry conditions",
	"Zaid":   "May-June, harvest before peak summer",
}

func harvestingAdvice(season string) string {
	if a, ok := harvestingWindows[season]; ok {
		return a
	}
	return "Follow crop-specific maturity indicators"
}

var monthlyExpectations = map[time.Month]string{
	time.January:   "Cool, dry conditions",
	time.February:  "Warming trend begins",
	time.March:     "Pre-monsoon heat",
	time.April:     "Hot, dry weather",
	time.May:       "Peak summer heat",
	time.June:      "Monsoon onset",
	time.July:      "Heavy monsoon rains",
	time.August:    "Continued monsoon",
	time.September: "Monsoon withdrawal",
	time.October:   "Post-monsoon transition",
	time.November:  "Cool, clear weather",
	time.December:  "Winter conditions",
}

var monthlyFocus = map[time.Month]string{
	time.January:   "Rabi crop management and irrigation scheduling",
	time.February:  "Pest monitoring and fertilizer application",
	time.March:     "Harvest preparation and Zaid crop planning",
	time.April:     "Zaid sowing and summer crop care",
	time.May:       "Heat stress management and water conservation",
	time.June:      "Kharif preparation and monsoon readiness",
	time.July:      "Kharif sowing and drainage management",
	time.August:    "Crop monitoring and pest control",
	time.September: "Disease management and harvest planning",
	time.October:   "Kharif harvest and Rabi preparation",
	time.November:  "Rabi sowing and storage management",
	time.December:  "Winter crop care and next-year planning",
}

var monthlyActivities = map[time.Month][]string{
	time.January:   {"Wheat irrigation", "Vegetable harvesting"},
	time.February:  {"Mustard flowering care", "Summer crop planning"},
	time.March:     {"Rabi harvest", "Field preparation"},
	time.April:     {"Zaid sowing", "Irrigation system check"},
	time.May:       {"Heat protection", "Water management"},
	time.June:      {"Field preparation", "Seed treatment"},
	time.July:      {"Timely sowing", "Weed management"},
	time.August:    {"Nutrient management", "Pest scouting"},
	time.September: {"Disease control", "Drainage maintenance"},
	time.October:   {"Harvest timing", "Storage preparation"},
	time.November:  {"Timely sowing", "Seed bed preparation"},
	time.December:  {"Cold protection", "Irrigation scheduling"},
}

func monthlyOutlook(from time.Time, months int) []models.MonthOutlook {
	var outlook []models.MonthOutlook
	for i := 0; i < months; i++ {
		m := from.AddDate(0, i, 0)
		outlook = append(outlook, models.MonthOutlook{
			Month:        m.Format("January 2006"),
			Expectations: monthlyExpectations[m.Month()],
			Focus:        monthlyFocus[m.Month()],
			Activities:   monthlyActivities[m.Month()],
		})
	}
	return outlook
}

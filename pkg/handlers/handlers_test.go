package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "bhoomi-advisory-api/configs"
)

func writeTestData(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "jharkhand_dataset")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	fertilizers := "region\tsoilType\tcrop\tyield\tyieldUnit\tpricePerKg\tgrossIncome\tfertilizerRecommendation\tnotes\tsource\n" +
		"Jharkhand\tRed Soil\tPaddy (Rice)\t4500\tkg/ha\t22\t99000\t120 kg N, 60 kg P2O5, 40 kg K2O per ha\tSplit N in three doses\tICAR trial 2023\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fertilizers_jharkhand.tsv"), []byte(fertilizers), 0o644))

	economics := "crop,category,economicImportance,primaryDistricts,notes,source\n" +
		"Rice,Cereal,High,\"Ranchi, Dumka\",Staple food crop,State agri report\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jharkhand_crops_economic_importance.csv"), []byte(economics), 0o644))

	pests := "pest,cropAffected,economicImpact,naturalPesticides,notes\n" +
		"Stem Borer,Rice,High,Neem oil spray,Monitor during tillering\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jharkhand_pests_natural_pesticides.csv"), []byte(pests), 0o644))

	calendar := "crop,category,economicImportance,season,soilType,notes\n" +
		"Rice,Cereal,High,Kharif,Red Soil,Staple crop\n" +
		"Mustard,Oilseed,Medium,Rabi,Alluvial,Winter oilseed\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jharkhand_crop_calendar.csv"), []byte(calendar), 0o644))
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	writeTestData(t, root)

	// Force mock weather data regardless of the host environment.
	t.Setenv("OPENWEATHERMAP_API_KEY", "")

	cfg := &config.Config{
		GroqModel:         "primary",
		GroqFallbackModel: "fallback",
		GroqSimpleModel:   "simple",
		DataRoot:          root,
	}
	return SetupRouter(cfg)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
}

func TestCurrentWeatherRequiresCity(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/weather/current", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "City parameter is required", body["error"])
}

func TestCurrentWeatherMockData(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/weather/current?city=Ranchi", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
}

func TestWeatherCoordinatesValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/weather/coords?lat=23.36", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Latitude and longitude parameters are required", body["error"])

	w = doRequest(router, http.MethodGet, "/api/weather/coords?lat=abc&lon=85.33", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Invalid latitude or longitude values", body["error"])

	w = doRequest(router, http.MethodGet, "/api/weather/coords?lat=23.36&lon=85.33", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Long-form alias serves the same handler.
	w = doRequest(router, http.MethodGet, "/api/weather/coordinates?lat=23.36&lon=85.33", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestForecastByCoordinates(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/weather/forecast", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/weather/forecast?lat=23.36&lon=85.33", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	w = doRequest(router, http.MethodGet, "/api/weather/forecast?city=Ranchi", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtendedForecastRequiresCoordinates(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/weather/extended", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/weather/extended?lat=23.36&lon=85.33", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.NotNil(t, data["seasonalInsights"])
}

func TestAgriculturalForecastDefaultsCity(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/weather/agricultural", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestAskValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/ai/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/ai/ask", `{"query":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/ai/ask", `{"query":"what to plant","state":"punjab"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "unsupported state")
}

func TestAskAcceptsLocationObject(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/ai/ask",
		`{"query":"what crop should I plant","state":"jharkhand","location":{"lat":23.36,"lon":85.33}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	require.NotNil(t, data["region"])
	region := data["region"].(map[string]interface{})
	assert.Equal(t, "jharkhand", region["state"])
}

func TestAskAnswersOffline(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/ai/ask",
		`{"query":"What should I plant this season?","state":"jharkhand"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["answer"])
	assert.NotNil(t, data["season"])
}

func TestQuickAdvice(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/ai/quick-advice",
		`{"type":"crop-recommendation","state":"kerala"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/ai/quick-advice", `{"type":"stock-tips"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFertilizerAdviceRequiresParams(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/agent/browser-fertilizer",
		"/api/agent/browser-fertilizer?crop=rice",
		"/api/agent/browser-fertilizer?location=Jharkhand&crop=rice",
		"/api/agent/browser-fertilizer?location=Jharkhand&soil=red",
	} {
		w := doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		body := decodeBody(t, w)
		assert.Equal(t, "Missing required parameters: location, crop, soil", body["error"])
	}

	w := doRequest(router, http.MethodPost, "/api/agent/browser-fertilizer",
		`{"crop":"rice","soil":"red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFertilizerAdviceCachedSecondCall(t *testing.T) {
	router := newTestRouter(t)

	first := doRequest(router, http.MethodGet, "/api/agent/browser-fertilizer?location=Jharkhand&crop=rice&soil=red", "")
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := decodeBody(t, first)
	assert.Equal(t, false, firstBody["cached"])

	second := doRequest(router, http.MethodGet, "/api/agent/browser-fertilizer?location=Jharkhand&crop=rice&soil=red", "")
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeBody(t, second)
	assert.Equal(t, true, secondBody["cached"])
}

func TestFertilizerAdviceRateLimited(t *testing.T) {
	router := newTestRouter(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = doRequest(router, http.MethodGet, "/api/agent/browser-fertilizer?location=Jharkhand&crop=rice&soil=red", "")
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	body := decodeBody(t, last)
	assert.Equal(t, false, body["success"])
	retryAfter, ok := body["retryAfter"].(float64)
	require.True(t, ok)
	assert.Greater(t, retryAfter, float64(0))
}

func TestFertilizerAdvicePostWithYield(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/agent/browser-fertilizer",
		`{"location":"Jharkhand","crop":"rice","soil":"red","expectedYield":"50 quintals"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestFertilizerAdvicePostCachesApartFromGet(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/agent/browser-fertilizer?location=Jharkhand&crop=rice&soil=red", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["cached"])

	// A yield-less POST must not hit the GET entry.
	w = doRequest(router, http.MethodPost, "/api/agent/browser-fertilizer",
		`{"location":"Jharkhand","crop":"rice","soil":"red"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["cached"])

	w = doRequest(router, http.MethodPost, "/api/agent/browser-fertilizer",
		`{"location":"Jharkhand","crop":"rice","soil":"red"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["cached"])
}

func TestDatasetStats(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/agent/dataset-stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["fertilizerRecords"])
}

func TestPriceComparison(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/agent/price-comparison", `{"crop":"rice"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "rice", body["crop"])

	w = doRequest(router, http.MethodPost, "/api/agent/price-comparison", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDataEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/data/states", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/data/ph-recommendations", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/data/jharkhand", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/data/punjab", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/data/jharkhand/crops?search=rice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["count"])

	w = doRequest(router, http.MethodGet, "/api/data/jharkhand/recommendations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.EqualValues(t, 1, body["count"])

	w = doRequest(router, http.MethodPost, "/api/data/clear-cache", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMonitoringLogs(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodGet, "/api/health", "")
	w := doRequest(router, http.MethodGet, "/api/monitoring/logs", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	count, ok := body["count"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, count, float64(1))
}

package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/services"
)

// SetupRouter builds the full service graph and registers every route.
func SetupRouter(cfg *config.Config) *gin.Engine {
	monitoringService := services.NewMonitoringService()
	regionService := services.NewRegionService()
	soilService := services.NewSoilService(regionService, cfg.DataRoot)
	localDataService := services.NewLocalDataService(cfg.DataRoot)
	localDataService.Load()
	weatherService := services.NewWeatherService(config.GetOpenWeatherMapConfig())
	groqService := services.NewGroqService(cfg)

	promptConfig, err := config.LoadSystemPrompt()
	if err != nil {
		promptConfig = nil
	}

	advisoryService := services.NewAdvisoryService(
		regionService, soilService, localDataService, weatherService, groqService, promptConfig)
	fertilizerService := services.NewFertilizerService(localDataService, groqService)
	dataService := services.NewDataService(cfg.DataRoot)

	weatherHandler := NewWeatherHandler(weatherService)
	aiHandler := NewAIHandler(advisoryService)
	agentHandler := NewAgentHandler(fertilizerService, localDataService)
	dataHandler := NewDataHandler(dataService)
	monitoringHandler := NewMonitoringHandler(monitoringService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)

		weather := api.Group("/weather")
		{
			weather.GET("/current", weatherHandler.GetCurrentWeather)
			weather.GET("/coords", weatherHandler.GetWeatherByCoordinates)
			weather.GET("/coordinates", weatherHandler.GetWeatherByCoordinates)
			weather.GET("/forecast", weatherHandler.GetForecast)
			weather.GET("/extended", weatherHandler.GetExtendedForecast)
			weather.GET("/agricultural", weatherHandler.GetAgriculturalForecast)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/ask", aiHandler.Ask)
			ai.POST("/quick-advice", aiHandler.QuickAdvice)
		}

		agent := api.Group("/agent")
		{
			agent.GET("/browser-fertilizer", agentHandler.GetFertilizerAdvice)
			agent.POST("/browser-fertilizer", agentHandler.PostFertilizerAdvice)
			agent.GET("/dataset-stats", agentHandler.GetDatasetStats)
			agent.POST("/price-comparison", agentHandler.ComparePrices)
		}

		data := api.Group("/data")
		{
			data.GET("/states", dataHandler.ListStates)
			data.GET("/ph-recommendations", dataHandler.GetPHRecommendations)
			data.POST("/clear-cache", dataHandler.ClearCache)
			data.GET("/:state", dataHandler.GetStateDataset)
			data.GET("/:state/crops", dataHandler.SearchCrops)
			data.GET("/:state/recommendations", dataHandler.GetCropRecommendations)
		}

		monitoring := api.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	return r
}

package handlers

import (
	"net/http"

	"bhoomi-advisory-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// DataHandler serves the per-state agricultural dataset endpoints.
type DataHandler struct {
	dataService *services.DataService
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService *services.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// ListStates returns the states with datasets available.
func (h *DataHandler) ListStates(c *gin.Context) {
	respondOK(c, gin.H{
		"states": []string{"kerala", "karnataka", "jharkhand", "uttarpradesh"},
	})
}

type phRecommendation struct {
	Category      string   `json:"category"`
	Range         string   `json:"range"`
	SuitableCrops []string `json:"suitableCrops"`
	Management    string   `json:"management"`
}

var phRecommendations = []phRecommendation{
	{
		Category:      "strongly_acidic",
		Range:         "below 5.5",
		SuitableCrops: []string{"Tea", "Pineapple", "Potato"},
		Management:    "Apply agricultural lime 2-4 quintals/ha before sowing",
	},
	{
		Category:      "moderately_acidic",
		Range:         "5.5 - 6.0",
		SuitableCrops: []string{"Rice", "Maize", "Groundnut"},
		Management:    "Light liming 1-2 quintals/ha improves nutrient uptake",
	},
	{
		Category:      "slightly_acidic",
		Range:         "6.0 - 6.5",
		SuitableCrops: []string{"Rice", "Wheat", "Pulses", "Vegetables"},
		Management:    "Near-ideal range, maintain with regular organic matter",
	},
	{
		Category:      "neutral",
		Range:         "6.5 - 7.5",
		SuitableCrops: []string{"Wheat", "Sugarcane", "Cotton", "Most vegetables"},
		Management:    "Optimal range, no amendment needed",
	},
	{
		Category:      "slightly_alkaline",
		Range:         "7.5 - 8.5",
		SuitableCrops: []string{"Barley", "Mustard", "Cotton"},
		Management:    "Apply gypsum and organic compost to lower pH gradually",
	},
	{
		Category:      "alkaline",
		Range:         "above 8.5",
		SuitableCrops: []string{"Barley", "Date palm"},
		Management:    "Gypsum application and drainage improvement required",
	},
}

// GetPHRecommendations returns crop suitability guidance per pH category.
func (h *DataHandler) GetPHRecommendations(c *gin.Context) {
	respondOK(c, phRecommendations)
}

// ClearCache evicts all cached state datasets.
func (h *DataHandler) ClearCache(c *gin.Context) {
	cleared := h.dataService.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dataset cache cleared",
		"cleared": cleared,
	})
}

// GetStateDataset returns the full dataset for one state.
func (h *DataHandler) GetStateDataset(c *gin.Context) {
	dataset, err := h.dataService.GetDataset(c.Param("state"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, dataset)
}

// SearchCrops filters a state's crops by ?search= and ?importance=.
func (h *DataHandler) SearchCrops(c *gin.Context) {
	crops, err := h.dataService.SearchCrops(c.Param("state"), c.Query("search"), c.Query("importance"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(crops),
		"data":    crops,
	})
}

// GetCropRecommendations returns high-importance crops for a state.
func (h *DataHandler) GetCropRecommendations(c *gin.Context) {
	crops, err := h.dataService.CropRecommendations(c.Param("state"), c.Query("season"), c.Query("soilType"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(crops),
		"data":    crops,
	})
}

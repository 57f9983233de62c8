package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bhoomi-advisory-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AgentHandler serves the fertilizer advisory agent endpoints.
type AgentHandler struct {
	fertilizerService *services.FertilizerService
	localDataService  *services.LocalDataService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(fertilizerService *services.FertilizerService, localDataService *services.LocalDataService) *AgentHandler {
	return &AgentHandler{
		fertilizerService: fertilizerService,
		localDataService:  localDataService,
	}
}

type fertilizerRequest struct {
	Location      string `json:"location"`
	Crop          string `json:"crop" binding:"required"`
	Soil          string `json:"soil"`
	ExpectedYield string `json:"expectedYield"`
}

// GetFertilizerAdvice handles GET requests with query parameters.
func (h *AgentHandler) GetFertilizerAdvice(c *gin.Context) {
	h.advise(c, fertilizerRequest{
		Location: c.Query("location"),
		Crop:     c.Query("crop"),
		Soil:     c.Query("soil"),
	})
}

// PostFertilizerAdvice handles POST requests with a JSON body,
// additionally accepting an expected yield. A missing yield still keys
// the cache apart from the GET variant.
func (h *AgentHandler) PostFertilizerAdvice(c *gin.Context) {
	var req fertilizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required parameters: location, crop, soil")
		return
	}
	if strings.TrimSpace(req.ExpectedYield) == "" {
		req.ExpectedYield = "unknown"
	}
	h.advise(c, req)
}

func (h *AgentHandler) advise(c *gin.Context, req fertilizerRequest) {
	if strings.TrimSpace(req.Location) == "" || strings.TrimSpace(req.Crop) == "" || strings.TrimSpace(req.Soil) == "" {
		respondError(c, http.StatusBadRequest, "Missing required parameters: location, crop, soil")
		return
	}

	response, cached, err := h.fertilizerService.Advise(
		c.Request.Context(), c.ClientIP(), req.Location, req.Crop, req.Soil, req.ExpectedYield)
	if err != nil {
		var rateErr *services.RateLimitError
		if errors.As(err, &rateErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"error":      "Rate limit exceeded. Please try again later.",
				"retryAfter": rateErr.RetryAfter,
			})
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cached":  cached,
		"data":    response,
	})
}

// GetDatasetStats summarizes the loaded local knowledge base.
func (h *AgentHandler) GetDatasetStats(c *gin.Context) {
	respondOK(c, h.localDataService.Stats())
}

type priceComparisonRequest struct {
	Crop string `json:"crop" binding:"required"`
}

// ComparePrices returns fertilizer records with income figures for a crop.
func (h *AgentHandler) ComparePrices(c *gin.Context) {
	var req priceComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "crop is required")
		return
	}

	records := h.fertilizerService.ComparePrices(req.Crop)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"crop":    req.Crop,
		"data":    records,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bhoomi-advisory-api/pkg/models"
	"bhoomi-advisory-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the conversational advisory endpoints.
type AIHandler struct {
	advisoryService *services.AdvisoryService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(advisoryService *services.AdvisoryService) *AIHandler {
	return &AIHandler{advisoryService: advisoryService}
}

// Ask answers a free-form farming question with merged regional context.
func (h *AIHandler) Ask(c *gin.Context) {
	var query models.AIQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		respondError(c, http.StatusBadRequest, "query is required")
		return
	}
	if strings.TrimSpace(query.Query) == "" {
		respondError(c, http.StatusBadRequest, "query is required")
		return
	}

	query.State = strings.ToLower(strings.TrimSpace(query.State))
	if query.State != "" && !services.IsSupportedState(query.State) {
		respondError(c, http.StatusBadRequest, "unsupported state: "+query.State)
		return
	}

	if query.Location != nil && (query.Lat == nil || query.Lon == nil) {
		query.Lat = &query.Location.Lat
		query.Lon = &query.Location.Lon
	}

	response, err := h.advisoryService.Ask(c.Request.Context(), query)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to process AI query")
		return
	}
	respondOK(c, response)
}

type quickAdviceRequest struct {
	Type  string `json:"type" binding:"required"`
	State string `json:"state"`
}

// QuickAdvice answers one of the predefined advice prompts.
func (h *AIHandler) QuickAdvice(c *gin.Context) {
	var req quickAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "type is required")
		return
	}

	response, err := h.advisoryService.QuickAdvice(c.Request.Context(), req.Type, strings.ToLower(strings.TrimSpace(req.State)))
	if err != nil {
		if errors.Is(err, services.ErrUnknownAdviceType) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to generate quick advice")
		return
	}
	respondOK(c, response)
}

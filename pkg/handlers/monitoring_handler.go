package handlers

import (
	"net/http"
	"strconv"

	"bhoomi-advisory-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler exposes the in-memory request log.
type MonitoringHandler struct {
	monitoringService *services.MonitoringService
}

// NewMonitoringHandler creates a new MonitoringHandler.
func NewMonitoringHandler(monitoringService *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoringService: monitoringService}
}

// GetLogs returns recent request log entries, newest first.
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}

	logs := h.monitoringService.RecentLogs(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(logs),
		"errors":  h.monitoringService.ErrorCount(),
		"data":    logs,
	})
}

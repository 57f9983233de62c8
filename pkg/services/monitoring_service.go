package services

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bhoomi-advisory-api/pkg/models"
)

const maxLogEntries = 500

// MonitoringService keeps a bounded in-memory ring of request logs.
type MonitoringService struct {
	mu   sync.RWMutex
	logs []models.LogEntry
}

// NewMonitoringService creates an empty monitoring service.
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{logs: make([]models.LogEntry, 0, maxLogEntries)}
}

// LogRequest records one request, evicting the oldest entry when full.
func (s *MonitoringService) LogRequest(entry models.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.logs) >= maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logs = append(s.logs, entry)
}

// RecentLogs returns up to limit entries, newest first.
func (s *MonitoringService) RecentLogs(limit int) []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.logs) {
		limit = len(s.logs)
	}
	out := make([]models.LogEntry, 0, limit)
	for i := len(s.logs) - 1; i >= len(s.logs)-limit; i-- {
		out = append(out, s.logs[i])
	}
	return out
}

// LoggingMiddleware tags each request with an X-Request-ID and records
// method, path, status and latency once the handler chain finishes.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		s.LogRequest(models.LogEntry{
			RequestID: requestID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			ClientIP:  c.ClientIP(),
			Latency:   time.Since(start),
			Timestamp: start,
		})
	}
}

// ErrorCount returns how many recorded requests ended in 5xx.
func (s *MonitoringService) ErrorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, entry := range s.logs {
		if entry.Status >= 500 {
			n++
		}
	}
	return n
}

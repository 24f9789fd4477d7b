package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates the health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check GET /health - report service liveness
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "coordinator-backend",
	})
}

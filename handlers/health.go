package handlers

import (
	"net/http"
	"time"

	"bookingagent/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	monitor *utils.HealthMonitor
}

func NewHealthHandler(monitor *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health reports the last dependency check. Unhealthy dependencies answer 503.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
		return
	}

	status := h.monitor.Status()
	code, label := http.StatusOK, "healthy"
	if !status.Healthy {
		code, label = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{
		"status":    label,
		"timestamp": time.Now(),
		"services":  status.Services,
		"checkedAt": status.CheckedAt,
	})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Calendar Booking Agent API", "status": "running"})
}

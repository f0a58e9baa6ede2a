package handlers

import (
	"net/http"

	"tourbook/services/telemetry"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes the telemetry snapshot for dashboards and probes.
type HealthHandler struct {
	Monitor *telemetry.Monitor
}

func NewHealthHandler(monitor *telemetry.Monitor) *HealthHandler {
	return &HealthHandler{Monitor: monitor}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	snapshot := h.Monitor.Snapshot()
	status := http.StatusOK
	if snapshot.Health == telemetry.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, snapshot)
}

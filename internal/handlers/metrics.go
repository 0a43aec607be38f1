package handlers

import (
	"net/http"

	"github.com/damione1/live-poll/internal/services"
	"github.com/pocketbase/pocketbase/core"
)

// HandleMetrics returns WebSocket server metrics
func HandleMetrics(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot := hub.GetMetrics()
		return e.JSON(http.StatusOK, snapshot)
	}
}

// HandleHealth returns server health status
func HandleHealth(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot := hub.GetMetrics()

		status := http.StatusOK
		if snapshot.HealthStatus == "critical" {
			status = http.StatusServiceUnavailable
		}

		response := map[string]interface{}{
			"status":             snapshot.HealthStatus,
			"active_connections": snapshot.ActiveConnections,
			"uptime_seconds":     snapshot.UptimeSeconds,
		}

		return e.JSON(status, response)
	}
}

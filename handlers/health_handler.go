package handlers

import (
	"net/http"

	"github.com/NomadCrew/feedback-service/services"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService *services.HealthService
}

func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// Health godoc
// @Summary      Liveness check
// @Description  Reports that the service is up and which database file it uses
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthCheck
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.CheckHealth())
}

// ReadinessCheck handles kubernetes readiness probe
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	readiness := h.healthService.CheckReadiness(c.Request.Context())

	if readiness.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, readiness)
		return
	}

	c.JSON(http.StatusOK, readiness)
}

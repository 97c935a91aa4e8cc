package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/pkg/logger"
)

// Pinger is a backing store the readiness probe checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes
type HealthController struct {
	stores  map[string]Pinger
	timeout time.Duration
}

// NewHealthController creates a HealthController over the named stores
func NewHealthController(stores map[string]Pinger) *HealthController {
	return &HealthController{stores: stores, timeout: 2 * time.Second}
}

// Health reports the process is up
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready pings every store
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Services: map[string]string{}}
	status := http.StatusOK
	for name, store := range c.stores {
		if err := store.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Str("store", name).Msg("Readiness check failed")
			resp.Services[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "ok"
	}
	ctx.JSON(status, resp)
}

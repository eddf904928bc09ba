package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docsum/pkg/component/mongodb"
)

// HealthHandler reports service liveness and storage reachability.
type HealthHandler struct {
	check mongodb.HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(check mongodb.HealthChecker) *HealthHandler {
	return &HealthHandler{check: check}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if h.check != nil {
		if err := h.check(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{"status": status})
}

// Package router provides docsum service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docsum/internal/docsum/handler"
)

// Register registers the docsum service routes on the gin engine.
// 路径沿用既有客户端依赖的形态，带结尾斜杠的保持结尾斜杠。
func Register(engine *gin.Engine, docHandler *handler.DocumentHandler, healthHandler *handler.HealthHandler) {
	logger.Info("Registering docsum routes...")

	engine.GET("/healthz", healthHandler.Healthz)

	engine.POST("/documents/", docHandler.Submit)
	engine.GET("/documents/:file_id", docHandler.Fetch)

	engine.GET("/summary/:file_id", docHandler.FetchSummary)
	engine.GET("/summaries/", docHandler.ListSummaries)

	engine.DELETE("/clean/", docHandler.Purge)

	logger.Info("HTTP routes registered")
}

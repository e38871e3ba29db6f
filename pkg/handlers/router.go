package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by the index route
const Version = "1.0.0"

// NewRouter wires every route. metrics serves /metrics and defaults to the
// default Prometheus gatherer.
func NewRouter(h *Handler, metrics http.Handler) *gin.Engine {
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Content Rota API",
			"version": Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics))
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.PUT("/schedule/:date", h.SetEntry)
		admin.DELETE("/schedule/:date", h.DeleteEntry)
	}

	// Schedule Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/generate", h.GenerateSchedule)
		api.GET("/schedule", h.ListSchedule)
		api.GET("/schedule/csv", h.ExportCSV)
		api.GET("/schedule/:date", h.GetEntry)
		api.GET("/workload", h.Workload)
		api.GET("/task-types", h.TaskTypes)
		api.POST("/validate", h.ValidateConfig)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}

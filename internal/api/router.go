package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with all read API routes mounted.
func NewRouter(h *Handler, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/daily/:date", h.GetDaily)
		v1.GET("/weekly/:date", h.GetWeekly)
		v1.GET("/monthly/:date", h.GetMonthly)
		v1.GET("/runs", h.GetRuns)
	}

	return r
}

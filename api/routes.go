package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ir-engine/internal/engine"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

// SetupRoutes registers all engine endpoints on the router.
func SetupRoutes(router *gin.Engine, eng *engine.Engine) {
	api := NewAPI(eng)

	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	router.POST("/search", api.SearchHandler)
	router.GET("/stats", api.StatsHandler)
	router.GET("/terms/:term", api.TermStatsHandler)
	router.POST("/reindex", api.ReindexHandler)
	router.GET("/jobs", api.ListJobsHandler)
	router.GET("/jobs/:jobID", api.GetJobHandler)
	router.GET("/metrics", gin.WrapH(eng.Metrics().Handler()))
}

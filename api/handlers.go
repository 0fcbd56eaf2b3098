package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ir-engine/internal/engine"
	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
)

// API holds the handlers' shared dependencies.
type API struct {
	engine *engine.Engine
}

// NewAPI creates the handler set for an engine.
func NewAPI(eng *engine.Engine) *API {
	return &API{engine: eng}
}

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query     string `json:"query" binding:"required"`
	K         int    `json:"k,omitempty"`
	TimeoutMs int    `json:"timeout_ms,omitempty"`
}

// SearchHandler handles ranked free-text search requests.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	result, err := api.engine.Search(ctx, req.Query, req.K)
	if err != nil {
		if ctx.Err() != nil {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "search timed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// StatsHandler reports corpus and vocabulary statistics.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}

// TermStatsHandler reports the document frequency of a single term.
func (api *API) TermStatsHandler(c *gin.Context) {
	term := c.Param("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term cannot be empty"})
		return
	}
	c.JSON(http.StatusOK, api.engine.TermStats(term))
}

// ReindexHandler schedules a background index rebuild and returns 202 with
// the job id.
func (api *API) ReindexHandler(c *gin.Context) {
	jobID := api.engine.RebuildAsync()
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// GetJobHandler returns the status of a background job.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobID")
	job, err := api.engine.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists background jobs, newest first.
func (api *API) ListJobsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": api.engine.ListJobs()})
}

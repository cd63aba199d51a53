package api

import (
	"errors"
	"log"
	"net/http"

	"newsbrief/archive"
	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/gin-gonic/gin"
)

// RegisterBriefRoutes registers the JSON summarize and sentiment endpoints.
func RegisterBriefRoutes(r *gin.Engine, s Summarizer, loader archive.Loader) {
	g := r.Group("/api")
	g.POST("/summarize", handleSummarize(s))
	g.POST("/sentiment", handleSentiment(s))
	if loader != nil {
		g.GET("/briefs/:id", handleGetBrief(loader))
	}
}

// SummarizeRequest is the body of POST /api/summarize
type SummarizeRequest struct {
	Topic string `json:"topic"`
}

// SentimentRequest is the body of POST /api/sentiment
type SentimentRequest struct {
	Topic    string `json:"topic"`
	Focus    string `json:"focus"`
	PageSize int    `json:"page_size"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

func handleSummarize(s Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "Invalid JSON payload",
				Code:   orchestrator.CodeInvalidRequest,
				Detail: err.Error(),
			})
			return
		}

		runBrief(c, s, orchestrator.Request{Topic: req.Topic, Mode: types.ModeSummary})
	}
}

func handleSentiment(s Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SentimentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "Invalid JSON payload",
				Code:   orchestrator.CodeInvalidRequest,
				Detail: err.Error(),
			})
			return
		}

		runBrief(c, s, orchestrator.Request{
			Topic:    req.Topic,
			Mode:     types.ModeSentiment,
			Focus:    req.Focus,
			PageSize: req.PageSize,
		})
	}
}

func runBrief(c *gin.Context, s Summarizer, req orchestrator.Request) {
	brief, err := s.Summarize(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, brief)
}

func handleGetBrief(loader archive.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		brief, err := loader.Load(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, archive.ErrNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "Brief not found", Code: "not_found"})
				return
			}
			log.Printf("❌ Failed to load brief %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:  "Failed to load brief",
				Code:   orchestrator.CodeInternal,
				Detail: err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, brief)
	}
}

// statusFor maps a run error to its HTTP status
func statusFor(err error) int {
	switch {
	case orchestrator.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, orchestrator.ErrRunTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, orchestrator.ErrCancelled):
		return http.StatusServiceUnavailable
	case errors.Is(err, orchestrator.ErrFetchArticles), errors.Is(err, orchestrator.ErrSummarization):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ API Error: %v", err)
	}
	c.JSON(status, ErrorResponse{
		Error:  orchestrator.UserMessage(err),
		Code:   orchestrator.ErrorCode(err),
		Detail: err.Error(),
	})
}

package api

import (
	"net/http"

	"newsbrief/assistant"
	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes registers the single-page form UI.
func RegisterPageRoutes(r *gin.Engine, s Summarizer) {
	r.GET("/", handlePage)
	r.POST("/", handlePageSubmit(s))
}

// pageData is the template model for index.html
type pageData struct {
	Topic   string
	Mode    types.Mode
	Focus   string
	Focuses []string
	Brief   *types.Brief
	Error   string
}

func newPageData() pageData {
	return pageData{
		Mode:    types.ModeSummary,
		Focus:   assistant.FocusGeneral,
		Focuses: assistant.Focuses,
	}
}

func handlePage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPageData())
}

func handlePageSubmit(s Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := newPageData()
		data.Topic = c.PostForm("topic")
		if focus := c.PostForm("focus"); focus != "" {
			data.Focus = focus
		}

		mode, err := types.ParseMode(c.PostForm("mode"))
		if err != nil {
			data.Error = orchestrator.UserMessage(orchestrator.ErrInvalidRequest)
			c.HTML(http.StatusBadRequest, "index.html", data)
			return
		}
		data.Mode = mode

		brief, err := s.Summarize(c.Request.Context(), orchestrator.Request{
			Topic: data.Topic,
			Mode:  mode,
			Focus: data.Focus,
		})
		if err != nil {
			data.Error = orchestrator.UserMessage(err)
			c.HTML(statusFor(err), "index.html", data)
			return
		}

		data.Brief = brief
		c.HTML(http.StatusOK, "index.html", data)
	}
}

package api

import (
	"context"
	"embed"
	"html/template"

	"newsbrief/archive"
	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Summarizer produces a brief for one request
type Summarizer interface {
	Summarize(ctx context.Context, req orchestrator.Request) (*types.Brief, error)
}

// NewRouter constructs a Gin engine with registered routes.
// loader may be nil, in which case the archive lookup route is not served.
func NewRouter(s Summarizer, loader archive.Loader) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	// Register resource routers
	RegisterPageRoutes(r, s)
	RegisterBriefRoutes(r, s, loader)
	RegisterHealthRoutes(r)
	return r
}
